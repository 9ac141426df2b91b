package main

import (
	"fmt"
	"os"

	"github.com/EricLiChH/V-DMPF/dmpf"
	"github.com/EricLiChH/V-DMPF/dpf"
	"github.com/EricLiChH/V-DMPF/primitives"
	"github.com/EricLiChH/V-DMPF/vdpf"
)

// go run main.go demo-dpf
// go run main.go demo-vdpf
func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: main [demo-dpf|demo-vdpf|demo-dmpf]")
		return
	}

	ctx := primitives.DefaultPRGContext()

	switch os.Args[1] {
	case "demo-dpf":
		demoDPF(ctx)
	case "demo-dmpf":
		demoDMPF(ctx)
	case "demo-vdpf":
		demoVDPF(ctx)
	default:
		fmt.Println("usage: main [demo-dpf|demo-vdpf|demo-dmpf]")
	}
}

func demoDPF(ctx *primitives.PRGContext) {
	n, idx := 8, uint64(42)
	v := []byte("hello, fss world")

	k0, k1, err := dpf.Gen(ctx, n, idx, v)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	s0, err := dpf.Eval(ctx, k0, idx, len(v))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	s1, err := dpf.Eval(ctx, k1, idx, len(v))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Printf("dpf: recovered %q at x=%d\n", primitives.XORBytes(s0, s1), idx)
}

func demoDMPF(ctx *primitives.PRGContext) {
	n := 8
	xs := []uint64{3, 42, 201}
	vs := [][]byte{[]byte("aaaaaaaaaaaaaaaa"), []byte("bbbbbbbbbbbbbbbb"), []byte("cccccccccccccccc")}

	k0, k1, err := dmpf.Gen(ctx, n, xs, vs)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	for _, x := range xs {
		s0, err := dmpf.Eval(ctx, k0, x, 16)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		s1, err := dmpf.Eval(ctx, k1, x, 16)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Printf("dmpf: recovered %q at x=%d\n", primitives.XORBytes(s0, s1), x)
	}
}

func demoVDPF(ctx *primitives.PRGContext) {
	mmo := primitives.DefaultMMOContext()
	n, idx := 8, uint64(42)
	v := []byte("hello, fss world")

	k0, k1, err := vdpf.Gen(ctx, mmo, n, idx, v)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	table0, proof0, err := vdpf.FullDomain(ctx, mmo, k0, n, len(v))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	table1, proof1, err := vdpf.FullDomain(ctx, mmo, k1, n, len(v))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	got := primitives.XORBytes(table0[idx*uint64(len(v)):(idx+1)*uint64(len(v))], table1[idx*uint64(len(v)):(idx+1)*uint64(len(v))])
	fmt.Printf("vdpf: recovered %q at x=%d, proofs agree: %v\n", got, idx, proof0 == proof1)
}
