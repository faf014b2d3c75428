// Package appinfo resolves the portfolio app name for a project directory.
package appinfo

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// projectInfoFile is written by the earlier pipeline phases.
const projectInfoFile = "PROJECT_INFO.yaml"

var (
	datePrefixRe  = regexp.MustCompile(`^\d{8}-`)
	agentSuffixRe = regexp.MustCompile(`-agent$`)
)

// projectInfo matches the subset of PROJECT_INFO.yaml we care about.
type projectInfo struct {
	Name string `yaml:"name"`
}

// AppName resolves the app name for the project at dir.
//
// Preference order: the name field of PROJECT_INFO.yaml, then the directory
// name with the date prefix (YYYYMMDD-) and -agent suffix stripped. An
// unreadable or malformed info file falls through to the directory heuristic
// rather than failing.
func AppName(dir string) string {
	if name := fromProjectInfo(filepath.Join(dir, projectInfoFile)); name != "" {
		return name
	}
	return fromDirName(dir)
}

func fromProjectInfo(path string) string {
	raw, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	var info projectInfo
	if err := yaml.Unmarshal(raw, &info); err != nil {
		return ""
	}
	return strings.TrimSpace(info.Name)
}

func fromDirName(dir string) string {
	name := filepath.Base(dir)
	name = datePrefixRe.ReplaceAllString(name, "")
	name = agentSuffixRe.ReplaceAllString(name, "")
	return name
}

// ProjectName returns the raw directory base name used as the project
// identity in the workflow state.
func ProjectName(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return filepath.Base(dir)
	}
	return filepath.Base(abs)
}

// PublicDir returns the publish source path for a project and an error when
// it does not exist; completing a fix without it is fatal.
func PublicDir(dir string) (string, error) {
	path := filepath.Join(dir, "project", "public")
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("project/public/ not found: %s", path)
		}
		return "", fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", path)
	}
	return path, nil
}
