package filter

import "golang.org/x/net/bpf"

// FromBPF builds a Predicate that runs a classic BPF program through
// the pure-Go virtual machine, the equivalent of the teacher's
// pcap_offline_filter-backed CompileBPF/ExecuteBPF pair but without a
// cgo dependency on libpcap: callers assemble their own
// bpf.Instruction program (e.g. with bpf.Assemble) and this just runs
// it per packet, accepting whenever the program's return value (the
// number of bytes libpcap would keep) is nonzero.
func FromBPF(insns []bpf.Instruction) (Predicate, error) {
	vm, err := bpf.NewVM(insns)
	if err != nil {
		return nil, err
	}
	return func(p []byte) bool {
		n, err := vm.Run(p)
		return err == nil && n > 0
	}, nil
}
