package lm

import (
	"math"
	"os"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/pdiddy/ink-engine/pkg/types"
)

const testARPA = `\data\
ngram 1=4
ngram 2=2
ngram 3=1

\1-grams:
-1	a
-1	b
-2	<s>
-2	</s>

\2-grams:
-1	a	b
-2	<s>	a

\3-grams:
-1	<s>	a	b

\end\
`

func testModel(t *testing.T, text string) *Model {
	t.Helper()
	m, err := Parse(strings.NewReader(text), types.LanguageModelConfig{})
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	return m
}

func TestSequenceProbabilityUnigram(t *testing.T) {
	m := testModel(t, testARPA)
	p, err := m.SequenceProbability([]string{"a"})
	if err != nil {
		t.Fatalf("SequenceProbability() error: %v", err)
	}
	if !p.Equal(decimal.RequireFromString("0.1")) {
		t.Errorf("P(a) = %s, want 0.1", p)
	}
}

func TestSequenceProbabilityUnknownUnigram(t *testing.T) {
	// Without an <unk> entry the fallback is 1/count of declared unigrams.
	m := testModel(t, testARPA)
	p, err := m.SequenceProbability([]string{"zzz"})
	if err != nil {
		t.Fatalf("SequenceProbability() error: %v", err)
	}
	if got := p.InexactFloat64(); math.Abs(got-0.25) > 1e-9 {
		t.Errorf("P(zzz) = %v, want 0.25", got)
	}
}

func TestSequenceProbabilityStoredUnk(t *testing.T) {
	withUnk := strings.Replace(testARPA, "ngram 1=4", "ngram 1=5", 1)
	withUnk = strings.Replace(withUnk, "-2\t</s>", "-2\t</s>\n-3\t<unk>", 1)
	m := testModel(t, withUnk)
	p, err := m.SequenceProbability([]string{"zzz"})
	if err != nil {
		t.Fatalf("SequenceProbability() error: %v", err)
	}
	if !p.Equal(decimal.RequireFromString("0.001")) {
		t.Errorf("P(zzz) = %s, want 0.001 via <unk>", p)
	}
}

func TestSequenceProbabilityBigram(t *testing.T) {
	m := testModel(t, testARPA)
	p, err := m.SequenceProbability([]string{"a", "b"})
	if err != nil {
		t.Fatalf("SequenceProbability() error: %v", err)
	}
	if !p.Equal(decimal.RequireFromString("0.1")) {
		t.Errorf("P(a b) = %s, want 0.1", p)
	}

	// Unknown bigram falls back to 1/unigram-count.
	p, err = m.SequenceProbability([]string{"b", "a"})
	if err != nil {
		t.Fatalf("SequenceProbability() error: %v", err)
	}
	if got := p.InexactFloat64(); math.Abs(got-0.25) > 1e-9 {
		t.Errorf("P(b a) = %v, want 0.25", got)
	}
}

func TestSequenceProbabilityTrigramChain(t *testing.T) {
	m := testModel(t, testARPA)
	p, err := m.SequenceProbability([]string{"<s>", "a", "b"})
	if err != nil {
		t.Fatalf("SequenceProbability() error: %v", err)
	}
	if !p.Equal(decimal.RequireFromString("0.1")) {
		t.Errorf("P(<s> a b) = %s, want 0.1", p)
	}
}

func TestSentenceProbability(t *testing.T) {
	m := testModel(t, testARPA)
	p, err := m.SentenceProbability([]string{"a", "b"})
	if err != nil {
		t.Fatalf("SentenceProbability() error: %v", err)
	}
	// Triples: (<s>, a, b) stored at -1; (a, b, </s>) unknown, falling back
	// to -2*log10(4). 10^(-1 - 2*log10(4)) = 0.1 / 16.
	if got := p.InexactFloat64(); math.Abs(got-0.00625) > 1e-9 {
		t.Errorf("P(<s> a b </s>) = %v, want 0.00625", got)
	}
}

func TestSequenceProbabilityEmpty(t *testing.T) {
	m := testModel(t, testARPA)
	if _, err := m.SequenceProbability(nil); err == nil {
		t.Error("empty sequence accepted")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{
			"missing data header",
			"\\1-grams:\n-1\ta\n\\end\\\n",
		},
		{
			"undeclared block",
			"\\data\\\nngram 1=1\n\n\\1-grams:\n-1\ta\n\n\\2-grams:\n-1\ta\tb\n\\end\\\n",
		},
		{
			"wrong token count",
			"\\data\\\nngram 1=1\n\n\\1-grams:\n-1\ta\tb\n\\end\\\n",
		},
		{
			"duplicate entry",
			"\\data\\\nngram 1=2\n\n\\1-grams:\n-1\ta\n-2\ta\n\\end\\\n",
		},
		{
			"malformed probability",
			"\\data\\\nngram 1=1\n\n\\1-grams:\nxyz\ta\n\\end\\\n",
		},
		{
			"no unigram block",
			"\\data\\\nngram 2=1\n\n\\2-grams:\n-1\ta\tb\n\\end\\\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(strings.NewReader(tt.text), types.LanguageModelConfig{}); err == nil {
				t.Error("Parse() accepted malformed input")
			}
		})
	}
}

func TestParseIgnoresHeaderNoise(t *testing.T) {
	noisy := "some descriptive preamble\n" + testARPA
	m := testModel(t, noisy)
	p, err := m.SequenceProbability([]string{"a"})
	if err != nil {
		t.Fatalf("SequenceProbability() error: %v", err)
	}
	if !p.Equal(decimal.RequireFromString("0.1")) {
		t.Errorf("P(a) = %s, want 0.1", p)
	}
}

func TestLoadPlainFile(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/model.arpa"
	if err := os.WriteFile(path, []byte(testARPA), 0o644); err != nil {
		t.Fatal(err)
	}
	m, err := Load(types.LanguageModelConfig{Path: path})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	p, err := m.SequenceProbability([]string{"b"})
	if err != nil {
		t.Fatalf("SequenceProbability() error: %v", err)
	}
	if !p.Equal(decimal.RequireFromString("0.1")) {
		t.Errorf("P(b) = %s, want 0.1", p)
	}
}

func TestLoadTarball(t *testing.T) {
	m, err := Load(types.LanguageModelConfig{Path: "testdata/tiny.tar.bz2"})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	p, err := m.SequenceProbability([]string{"c"})
	if err != nil {
		t.Fatalf("SequenceProbability() error: %v", err)
	}
	if !p.Equal(decimal.RequireFromString("0.01")) {
		t.Errorf("P(c) = %s, want 0.01", p)
	}
}

func TestLoadMissingPath(t *testing.T) {
	if _, err := Load(types.LanguageModelConfig{}); err == nil {
		t.Error("Load() accepted an empty path")
	}
	if _, err := Load(types.LanguageModelConfig{Path: "testdata/nope.arpa"}); err == nil {
		t.Error("Load() accepted a missing file")
	}
}
