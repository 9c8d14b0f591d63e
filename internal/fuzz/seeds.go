package fuzz

import (
	"os"
	"path/filepath"
	"testing"

	"arrowc/internal/project"
)

const maxInput = 64 << 10

var snippets = []string{
	"",
	"function main(): int { return 0 }",
	"function main() { const f = () => 1 }",
	"function main() { let i = 0; const g = () => i++; g() }",
	"function main() { const h = (...xs: int[]) => xs.length }",
	"function main() { const k = ({a, b}) => a + b }",
	"class A { x: int = 1; get(): IntSupplier { return () => this.x } }",
	"function f() { for (let i = 0; i < 3; i++) { const g = () => i } }",
	"interface Op { apply(a: int): int }\nfunction main() { const o: Op = (a) => a * 2 }",
	"function main() { const r = (n: int): int => n == 0 ? 0 : r(n - 1) }",
}

func addSeeds(f *testing.F) {
	for _, s := range snippets {
		f.Add([]byte(s))
	}
	paths, err := project.ListSources(filepath.Join("..", "..", "testdata"))
	if err != nil {
		return
	}
	for _, path := range paths {
		// #nosec G304 -- path comes from the repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		f.Add(clamp(src))
	}
}

// clamp copies input, truncated to maxInput.
func clamp(input []byte) []byte {
	if len(input) > maxInput {
		input = input[:maxInput]
	}
	return append([]byte(nil), input...)
}

func truncateForLog(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
