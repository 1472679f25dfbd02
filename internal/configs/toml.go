package configs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// SaveTOML saves a struct to a TOML file.
func SaveTOML(filePath string, data interface{}) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return err
	}

	file, err := os.Create(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	return EncodeTOML(file, data)
}

// EncodeTOML writes data to w as TOML.
func EncodeTOML(w io.Writer, data interface{}) error {
	return toml.NewEncoder(w).Encode(data)
}

// LoadTOML loads a TOML file into a struct. Keys that do not map to a
// field are an error.
func LoadTOML(filePath string, data interface{}) error {
	md, err := toml.DecodeFile(filePath, data)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return fmt.Errorf("%s: unknown keys: %s", filePath, strings.Join(keys, ", "))
	}
	return nil
}
