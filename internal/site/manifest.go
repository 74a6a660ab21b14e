package site

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/texsite/texsite/internal/config"
)

// VersionEntry is one row of the version selector manifest.
type VersionEntry struct {
	Version string   `json:"version"`
	Title   string   `json:"title"`
	Aliases []string `json:"aliases"`
}

// WriteVersionsManifest writes versions.json, the manifest the deployed
// site's version selector reads. The latest version carries the "latest"
// alias.
func WriteVersionsManifest(deployDir string, versions []string, latest string) error {
	entries := make([]VersionEntry, 0, len(versions))
	for _, v := range versions {
		aliases := []string{}
		if v == latest {
			aliases = append(aliases, "latest")
		}
		entries = append(entries, VersionEntry{
			Version: config.VersionShort(v),
			Title:   config.VersionTitle(v),
			Aliases: aliases,
		})
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(deployDir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(deployDir, "versions.json"), append(data, '\n'), 0o644)
}

// WriteRootRedirect writes the deployment root index.html, which forwards
// visitors to the latest version.
func WriteRootRedirect(deployDir, siteName, latest string) error {
	short := config.VersionShort(latest)
	title := config.VersionTitle(latest)

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	b.WriteString("<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<meta http-equiv=\"refresh\" content=\"0; url=%s/\">\n", short)
	fmt.Fprintf(&b, "<title>%s Documentation</title>\n", siteName)
	b.WriteString("</head>\n<body>\n")
	fmt.Fprintf(&b, "<p>Redirecting to the <a href=\"%s/\">%s %s documentation</a>.</p>\n",
		short, siteName, title)
	b.WriteString("</body>\n</html>\n")

	if err := os.MkdirAll(deployDir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(deployDir, "index.html"), []byte(b.String()), 0o644)
}
