package keywords

import (
	"bufio"
	"io"
	"math/rand"
	"os"
	"strings"
)

// Parse reads newline-separated keywords, trimming whitespace and dropping
// empty lines.
func Parse(r io.Reader) []string {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

// Load reads a keyword file. A missing or unreadable file yields an empty
// list, never an error; the keyword feed is purely cosmetic.
func Load(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	return Parse(f)
}

// Shuffle randomizes keyword order in place.
func Shuffle(list []string) {
	rand.Shuffle(len(list), func(i, j int) {
		list[i], list[j] = list[j], list[i]
	})
}
