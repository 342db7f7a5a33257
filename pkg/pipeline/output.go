package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/Mweenda/MNIST-Digit-Recognition-Framework/pkg/augment"
	"github.com/Mweenda/MNIST-Digit-Recognition-Framework/pkg/buildinfo"
	"github.com/Mweenda/MNIST-Digit-Recognition-Framework/pkg/errors"
	digitio "github.com/Mweenda/MNIST-Digit-Recognition-Framework/pkg/io"
)

// ManifestName is the file WriteOutputs writes next to the variants.
const ManifestName = "manifest.json"

// Manifest records a run so a training job can audit or replay it.
type Manifest struct {
	RunID      string          `json:"run_id"`
	Version    string          `json:"version"`
	CreatedAt  time.Time       `json:"created_at"`
	Source     string          `json:"source"`
	SourceHash string          `json:"source_hash"`
	Size       int             `json:"size"`
	Seed       uint64          `json:"seed"`
	Config     augment.Config  `json:"config"`
	Variants   []ManifestEntry `json:"variants"`
}

// ManifestEntry describes one variant. Files maps format to file name
// relative to the manifest.
type ManifestEntry struct {
	Index  int               `json:"index"`
	Params augment.Params    `json:"params"`
	Files  map[string]string `json:"files,omitempty"`
	Cached bool              `json:"cached,omitempty"`
}

// FileName returns the output name of variant index, e.g. seven_0003.png.
func FileName(base string, index int, format string) string {
	return fmt.Sprintf("%s_%04d%s", base, index, digitio.Format(format).Ext())
}

// NewManifest builds the manifest of res. A non-empty base fills in the
// file names WriteOutputs would use.
func NewManifest(res *Result, base string) Manifest {
	version, _, _ := buildinfo.Get()
	m := Manifest{
		RunID:      res.RunID,
		Version:    version,
		CreatedAt:  time.Now().UTC(),
		Source:     res.Options.Input,
		SourceHash: res.SourceHash,
		Size:       res.Source.Size(),
		Seed:       res.Options.Seed,
		Config:     res.Options.Augment,
		Variants:   make([]ManifestEntry, len(res.Variants)),
	}
	for i, v := range res.Variants {
		e := ManifestEntry{Index: v.Index, Params: v.Params, Cached: v.Cached}
		if base != "" {
			e.Files = make(map[string]string, len(v.Artifacts))
			for format := range v.Artifacts {
				e.Files[format] = FileName(base, v.Index, format)
			}
		}
		m.Variants[i] = e
	}
	return m
}

// WriteManifest encodes the manifest of res as indented JSON.
func WriteManifest(w io.Writer, res *Result) error {
	return writeManifest(w, NewManifest(res, ""))
}

func writeManifest(w io.Writer, m Manifest) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode manifest")
	}
	return nil
}

// ReadManifest decodes a manifest written by WriteManifest or WriteOutputs.
// Every recorded parameter set is validated, so a replay cannot exceed the
// augmentation limits.
func ReadManifest(r io.Reader) (Manifest, error) {
	var m Manifest
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return Manifest{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode manifest")
	}
	for _, v := range m.Variants {
		if err := v.Params.Validate(); err != nil {
			return Manifest{}, err
		}
	}
	return m, nil
}

// WriteOutputs writes every artifact of res into dir as
// <base>_<index>.<format>, plus manifest.json. It returns the written paths,
// manifest last.
func WriteOutputs(dir, base string, res *Result) ([]string, error) {
	if err := errors.ValidateOutputDir(dir); err != nil {
		return nil, err
	}
	if err := errors.ValidateBaseName(base); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", dir)
	}

	var paths []string
	for _, v := range res.Variants {
		formats := make([]string, 0, len(v.Artifacts))
		for f := range v.Artifacts {
			formats = append(formats, f)
		}
		sort.Strings(formats)
		for _, f := range formats {
			path := filepath.Join(dir, FileName(base, v.Index, f))
			if err := os.WriteFile(path, v.Artifacts[f], 0o644); err != nil {
				return paths, errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
			}
			paths = append(paths, path)
		}
	}

	path := filepath.Join(dir, ManifestName)
	f, err := os.Create(path)
	if err != nil {
		return paths, errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
	}
	if err := writeManifest(f, NewManifest(res, base)); err != nil {
		f.Close()
		return paths, err
	}
	if err := f.Close(); err != nil {
		return paths, errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
	}
	return append(paths, path), nil
}
