package master

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed scenes/*.stream
var sceneFS embed.FS

// Scenes lists the built-in demo scenes by name.
func Scenes() []string {
	entries, _ := fs.ReadDir(sceneFS, "scenes")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".stream"))
	}
	sort.Strings(names)
	return names
}

// Scene returns a built-in provisioning stream.
func Scene(name string) ([]byte, error) {
	b, err := sceneFS.ReadFile(path.Join("scenes", name+".stream"))
	if err != nil {
		return nil, fmt.Errorf("unknown scene %q (have %s)", name, strings.Join(Scenes(), ", "))
	}
	return b, nil
}
