package buildinfo

import (
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"

	"gopkg.in/yaml.v3"
)

// Metadata captures static identifiers for the gateway. Centralising the
// values makes it easy to clone this repository for new gateways.
type Metadata struct {
	Name        string
	Description string
	Version     string
}

// Info describes the current build. The service.yaml manifest is optional:
// without one the name falls back to "voicegate" and the version to the
// module version recorded by the toolchain.
var Info = loadMetadata()

// Version returns the gateway semantic version.
func Version() string {
	return Info.Version
}

func loadMetadata() Metadata {
	meta := Metadata{
		Name:        "voicegate",
		Description: "speech synthesis gateway",
		Version:     moduleVersion(),
	}

	data, err := loadManifest()
	if err != nil {
		return meta
	}
	return applyManifest(meta, data)
}

type manifestDocument struct {
	Service struct {
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
		Version     string `yaml:"version"`
	} `yaml:"service"`
}

// applyManifest overlays manifest values onto meta, keeping the fallback
// for any field the manifest omits or that fails to parse.
func applyManifest(meta Metadata, data []byte) Metadata {
	var doc manifestDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return meta
	}

	if name := strings.TrimSpace(doc.Service.Name); name != "" {
		meta.Name = name
	}
	if desc := strings.TrimSpace(doc.Service.Description); desc != "" {
		meta.Description = desc
	}
	if version := strings.TrimSpace(doc.Service.Version); version != "" {
		meta.Version = version
	}
	return meta
}

// loadManifest checks next to the binary, the working directory and the
// source tree, in that order.
func loadManifest() ([]byte, error) {
	var candidates []string
	if exe, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Dir(exe))
	}
	if wd, err := os.Getwd(); err == nil {
		candidates = append(candidates, wd)
	}
	if _, file, _, ok := runtime.Caller(0); ok {
		srcRoot := filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
		candidates = append(candidates, srcRoot)
	}

	seen := make(map[string]struct{})
	for _, base := range candidates {
		base = filepath.Clean(base)
		if _, ok := seen[base]; ok {
			continue
		}
		seen[base] = struct{}{}

		candidate := filepath.Join(base, "service.yaml")
		if data, err := os.ReadFile(candidate); err == nil {
			return data, nil
		}
	}
	return nil, os.ErrNotExist
}

func moduleVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			return v
		}
	}
	return "devel"
}
