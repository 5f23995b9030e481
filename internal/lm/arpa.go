// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lm

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/pdiddy/ink-engine/pkg/types"
)

// Parse reads a standard ARPA language-model text: a \data\ header listing
// "ngram <n>=<count>" lines, then one \<n>-grams: block per order with
// "<log10prob>\t<token_1>\t...\t<token_n>" data lines, terminated by \end\.
// Malformed input fails here, at load time, never at query time.
func Parse(r io.Reader, cfg types.LanguageModelConfig) (*Model, error) {
	m := newModel(cfg)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	inData := false
	currentOrder := 0 // 0 means header, not inside an n-gram block
	lineNr := 0

	for scanner.Scan() {
		lineNr++
		line := strings.TrimRight(scanner.Text(), "\r\n")
		trimmed := strings.TrimSpace(line)

		if !inData {
			if strings.Contains(trimmed, `\data\`) {
				inData = true
			}
			continue
		}
		if trimmed == `\end\` {
			break
		}
		if trimmed == "" {
			continue
		}

		if strings.HasPrefix(trimmed, `\`) {
			n, err := parseBlockHeader(trimmed)
			if err != nil {
				return nil, fmt.Errorf("arpa: line %d: %w", lineNr, err)
			}
			if _, ok := m.orders[n]; !ok {
				return nil, fmt.Errorf("arpa: line %d: %d-gram block was not declared in the header", lineNr, n)
			}
			currentOrder = n
			continue
		}

		if currentOrder == 0 {
			if err := parseCountLine(trimmed, m); err != nil {
				return nil, fmt.Errorf("arpa: line %d: %w", lineNr, err)
			}
			continue
		}

		if err := parseDataLine(line, currentOrder, m); err != nil {
			return nil, fmt.Errorf("arpa: line %d: %w", lineNr, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("arpa: reading input: %w", err)
	}
	if !inData {
		return nil, fmt.Errorf(`arpa: no \data\ header found`)
	}
	if _, ok := m.orders[1]; !ok {
		return nil, fmt.Errorf("arpa: model declares no 1-gram block")
	}
	return m, nil
}

// parseBlockHeader extracts n from a "\<n>-grams:" line.
func parseBlockHeader(line string) (int, error) {
	head, _, ok := strings.Cut(line, "-")
	if !ok {
		return 0, fmt.Errorf("malformed block header %q", line)
	}
	n, err := strconv.Atoi(strings.TrimPrefix(head, `\`))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("malformed block header %q", line)
	}
	return n, nil
}

// parseCountLine handles one "ngram <n>=<count>" header line. Other header
// content is ignored.
func parseCountLine(line string, m *Model) error {
	if !strings.HasPrefix(line, "ngram") {
		return nil
	}
	spec, countStr, ok := strings.Cut(line, "=")
	if !ok {
		return fmt.Errorf("malformed ngram count line %q", line)
	}
	_, nStr, ok := strings.Cut(strings.TrimSpace(spec), " ")
	if !ok {
		return fmt.Errorf("malformed ngram count line %q", line)
	}
	n, err := strconv.Atoi(nStr)
	if err != nil || n < 1 {
		return fmt.Errorf("malformed ngram order in %q", line)
	}
	count, err := strconv.Atoi(strings.TrimSpace(countStr))
	if err != nil || count < 1 {
		return fmt.Errorf("malformed ngram count in %q", line)
	}
	m.orders[n] = &order{count: count, data: ngramLevel{}}
	return nil
}

// parseDataLine handles one "<log10prob>\t<tokens...>" line of an n-gram
// block.
func parseDataLine(line string, n int, m *Model) error {
	fields := strings.Split(line, "\t")
	if len(fields) != n+1 {
		return fmt.Errorf("%d-gram line has %d tokens, want %d", n, len(fields)-1, n)
	}
	logProb, err := decimal.NewFromString(fields[0])
	if err != nil {
		return fmt.Errorf("malformed log probability %q: %w", fields[0], err)
	}
	if err := m.orders[n].insert(fields[1:], logProb); err != nil {
		return err
	}
	return nil
}
