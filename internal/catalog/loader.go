package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"custodian/pkg/logging"
)

// catalogFile is the multi-record file form: a top-level services list.
type catalogFile struct {
	Services []ServiceRecord `yaml:"services" toml:"services"`
}

// IsCatalogFile reports whether path has an extension LoadDirectory reads.
func IsCatalogFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json", ".toml":
		return true
	default:
		return false
	}
}

// LoadDirectory reads every catalog file directly inside dir, in lexical
// file-name order, and returns the records in file order. A missing
// directory yields an empty catalog. Duplicate service names across files
// are an error; the catalog has no defined way to merge them.
func LoadDirectory(dir string) ([]ServiceRecord, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Info("Catalog", "Catalog directory %s does not exist, starting empty", dir)
			return nil, nil
		}
		return nil, fmt.Errorf("read catalog directory %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !IsCatalogFile(e.Name()) || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)

	var records []ServiceRecord
	seen := make(map[string]string)
	for _, f := range files {
		recs, err := DecodeFile(f)
		if err != nil {
			return nil, err
		}
		for _, r := range recs {
			if prev, dup := seen[r.Name]; dup {
				return nil, fmt.Errorf("service %q defined in both %s and %s", r.Name, prev, f)
			}
			seen[r.Name] = f
			records = append(records, r)
		}
	}

	logging.Info("Catalog", "Loaded %d services from %d files in %s", len(records), len(files), dir)
	return records, nil
}

// DecodeFile decodes one catalog file. YAML and JSON files may hold a single
// record, a `services:` list, or several YAML documents; TOML files hold a
// single record or a `[[services]]` array.
func DecodeFile(path string) ([]ServiceRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var records []ServiceRecord
	if strings.ToLower(filepath.Ext(path)) == ".toml" {
		records, err = decodeTOML(data)
	} else {
		records, err = decodeYAML(data)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	for _, r := range records {
		if err := Validate(r); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return records, nil
}

func decodeYAML(data []byte) ([]ServiceRecord, error) {
	var records []ServiceRecord
	dec := yaml.NewDecoder(bytes.NewReader(data))
	for {
		var node yaml.Node
		err := dec.Decode(&node)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(node.Content) == 0 {
			continue
		}

		if hasServicesKey(node.Content[0]) {
			var f catalogFile
			if err := node.Decode(&f); err != nil {
				return nil, err
			}
			records = append(records, f.Services...)
			continue
		}

		var r ServiceRecord
		if err := node.Decode(&r); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, nil
}

func hasServicesKey(n *yaml.Node) bool {
	if n.Kind != yaml.MappingNode {
		return false
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == "services" {
			return true
		}
	}
	return false
}

func decodeTOML(data []byte) ([]ServiceRecord, error) {
	var f catalogFile
	md, err := toml.Decode(string(data), &f)
	if err != nil {
		return nil, err
	}
	if md.IsDefined("services") {
		return f.Services, nil
	}

	var r ServiceRecord
	if _, err := toml.Decode(string(data), &r); err != nil {
		return nil, err
	}
	return []ServiceRecord{r}, nil
}
