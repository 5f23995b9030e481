// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lm

import (
	"archive/tar"
	"compress/bzip2"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pdiddy/ink-engine/pkg/types"
)

// Load reads the model file named in cfg: a .tar.bz2 archive containing one
// .arpa entry (the packaged form the recognizer ships with), or plain ARPA
// text for any other extension.
func Load(cfg types.LanguageModelConfig) (*Model, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("lm: no model path configured")
	}
	f, err := os.Open(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("lm: opening model: %w", err)
	}
	defer f.Close()

	if strings.HasSuffix(cfg.Path, ".tar.bz2") {
		return loadTarball(f, cfg)
	}
	m, err := Parse(f, cfg)
	if err != nil {
		return nil, fmt.Errorf("lm: %s: %w", cfg.Path, err)
	}
	return m, nil
}

// loadTarball scans a bzip2-compressed tar stream for the first .arpa entry
// and parses it.
func loadTarball(r io.Reader, cfg types.LanguageModelConfig) (*Model, error) {
	tr := tar.NewReader(bzip2.NewReader(r))
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil, fmt.Errorf("lm: archive contains no .arpa entry")
		}
		if err != nil {
			return nil, fmt.Errorf("lm: reading archive: %w", err)
		}
		if hdr.Typeflag != tar.TypeReg || !strings.HasSuffix(hdr.Name, ".arpa") {
			continue
		}
		m, err := Parse(tr, cfg)
		if err != nil {
			return nil, fmt.Errorf("lm: %s: %w", hdr.Name, err)
		}
		return m, nil
	}
}
