package matcher

import (
	"fmt"
	"testing"
)

var benchCandidates = func() []string {
	out := make([]string, 0, 600)
	for i := 0; i < 200; i++ {
		out = append(out,
			fmt.Sprintf("c%d-48p", 9000+i),
			fmt.Sprintf("ws-c%d-24ts", 2000+i),
			fmt.Sprintf("ex%d-48t", 4000+i),
		)
	}
	return out
}()

func BenchmarkBest(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		Best("ws-c2150-24ts-l", benchCandidates, 0.8)
	}
}

func BenchmarkSimilarity(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		Similarity("cisco-ws-c3850-24", "c3850-24")
	}
}
