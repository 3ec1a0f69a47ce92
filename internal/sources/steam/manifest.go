package steam

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gamedex/internal/metadata"
)

// Library reads install state from a local steamapps directory. Each installed
// app has an appmanifest_<appid>.acf file in Valve's text KeyValues format.
type Library struct {
	dir string
}

// NewLibrary points at a steamapps directory. An empty dir yields a nil
// library, which callers treat as "no install data".
func NewLibrary(dir string) *Library {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil
	}
	return &Library{dir: dir}
}

// InstallInfo reads the appmanifest for an App ID, checking the configured
// steamapps directory and every extra library listed in libraryfolders.vdf.
// A missing manifest means the game is not installed and returns (nil, nil).
func (l *Library) InstallInfo(appID string) (*metadata.InstallInfo, error) {
	if l == nil {
		return nil, nil
	}
	for _, dir := range l.steamappsDirs() {
		info, err := readManifest(dir, appID)
		if err != nil {
			return nil, err
		}
		if info != nil {
			return info, nil
		}
	}
	return nil, nil
}

// steamappsDirs returns the configured directory plus any additional library
// directories declared in libraryfolders.vdf. The file is optional and a
// malformed one degrades to the configured directory alone.
func (l *Library) steamappsDirs() []string {
	dirs := []string{l.dir}

	data, err := os.ReadFile(filepath.Join(l.dir, "libraryfolders.vdf"))
	if err != nil {
		return dirs
	}
	root, err := parseKeyValues(data)
	if err != nil {
		return dirs
	}
	folders, ok := root["libraryfolders"].(keyValues)
	if !ok {
		return dirs
	}

	indexes := make([]string, 0, len(folders))
	for index := range folders {
		indexes = append(indexes, index)
	}
	sort.Strings(indexes)

	seen := map[string]struct{}{l.dir: {}}
	for _, index := range indexes {
		entry, ok := folders[index].(keyValues)
		if !ok {
			continue
		}
		path, _ := entry["path"].(string)
		if path == "" {
			continue
		}
		dir := filepath.Join(path, "steamapps")
		if _, dup := seen[dir]; dup {
			continue
		}
		seen[dir] = struct{}{}
		dirs = append(dirs, dir)
	}
	return dirs
}

func readManifest(dir, appID string) (*metadata.InstallInfo, error) {
	path := filepath.Join(dir, "appmanifest_"+appID+".acf")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}

	root, err := parseKeyValues(data)
	if err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	state, ok := root["AppState"].(keyValues)
	if !ok {
		return nil, fmt.Errorf("manifest %s: missing AppState block", path)
	}

	installDir, _ := state["installdir"].(string)
	if installDir == "" {
		return nil, fmt.Errorf("manifest %s: missing installdir", path)
	}

	info := &metadata.InstallInfo{
		InstallPath: filepath.Join(dir, "common", installDir),
		Platform:    "steam",
	}
	if size, ok := state["SizeOnDisk"].(string); ok {
		if parsed, err := strconv.ParseInt(size, 10, 64); err == nil {
			info.InstallSize = parsed
		}
	}
	return info, nil
}

// keyValues is a parsed Valve KeyValues object: values are either string or a
// nested keyValues.
type keyValues map[string]any

// parseKeyValues parses the subset of Valve's text KeyValues format that
// appmanifest files use: quoted keys, quoted string values, and brace-nested
// objects.
func parseKeyValues(data []byte) (keyValues, error) {
	tokens, err := tokenizeKeyValues(data)
	if err != nil {
		return nil, err
	}
	pos := 0
	root, err := parseObjectBody(tokens, &pos, false)
	if err != nil {
		return nil, err
	}
	if pos != len(tokens) {
		return nil, fmt.Errorf("unexpected trailing token %q", tokens[pos].text)
	}
	return root, nil
}

type kvToken struct {
	text     string
	isString bool
}

func tokenizeKeyValues(data []byte) ([]kvToken, error) {
	var tokens []kvToken
	i := 0
	for i < len(data) {
		c := data[i]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			i++
		case c == '{' || c == '}':
			tokens = append(tokens, kvToken{text: string(c)})
			i++
		case c == '/' && i+1 < len(data) && data[i+1] == '/':
			for i < len(data) && data[i] != '\n' {
				i++
			}
		case c == '"':
			i++
			var sb strings.Builder
			for i < len(data) && data[i] != '"' {
				if data[i] == '\\' && i+1 < len(data) {
					i++
				}
				sb.WriteByte(data[i])
				i++
			}
			if i >= len(data) {
				return nil, errors.New("unterminated string")
			}
			i++
			tokens = append(tokens, kvToken{text: sb.String(), isString: true})
		default:
			return nil, fmt.Errorf("unexpected character %q", c)
		}
	}
	return tokens, nil
}

// parseObjectBody parses key/value pairs until the token stream ends (at the
// top level) or a closing brace (inside a nested object).
func parseObjectBody(tokens []kvToken, pos *int, nested bool) (keyValues, error) {
	obj := make(keyValues)
	for *pos < len(tokens) {
		tok := tokens[*pos]
		if !tok.isString {
			if tok.text == "}" && nested {
				*pos++
				return obj, nil
			}
			return nil, fmt.Errorf("expected key, got %q", tok.text)
		}
		key := tok.text
		*pos++
		if *pos >= len(tokens) {
			return nil, fmt.Errorf("key %q has no value", key)
		}

		val := tokens[*pos]
		if val.isString {
			obj[key] = val.text
			*pos++
			continue
		}
		if val.text != "{" {
			return nil, fmt.Errorf("key %q: expected value, got %q", key, val.text)
		}
		*pos++
		child, err := parseObjectBody(tokens, pos, true)
		if err != nil {
			return nil, err
		}
		obj[key] = child
	}
	if nested {
		return nil, errors.New("unterminated object")
	}
	return obj, nil
}
