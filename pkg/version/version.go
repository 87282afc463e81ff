package version

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"golang.org/x/mod/semver"
)

const devVersion = "0.0.0-dev"

// Preenchidos por -ldflags "-X .../pkg/version.Version=1.2.3" nos builds de release.
var (
	Version   = devVersion
	Commit    = ""
	BuildTime = ""
)

// ReleaseURL aponta para a última release no GitHub.
var ReleaseURL = "https://api.github.com/repos/diillson/arch-schedule-go/releases/latest"

const installHint = "go install github.com/diillson/arch-schedule-go/cmd/arch-schedule@latest"

func init() {
	if bi, ok := debug.ReadBuildInfo(); ok {
		fromBuildInfo(bi)
	}
}

// fromBuildInfo completa o que ldflags não definiu. Com "go install ...@v1.2.3"
// a versão vem de bi.Main.Version; num checkout, só commit e horário do VCS.
func fromBuildInfo(bi *debug.BuildInfo) {
	if Version == devVersion && semver.IsValid(bi.Main.Version) {
		Version = strings.TrimPrefix(bi.Main.Version, "v")
	}

	dirty := false
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if Commit == "" && len(s.Value) >= 7 {
				Commit = s.Value[:7]
			}
		case "vcs.time":
			if t, err := time.Parse(time.RFC3339, s.Value); err == nil && BuildTime == "" {
				BuildTime = t.UTC().Format("2006-01-02T15:04:05Z")
			}
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if dirty && Commit != "" {
		Commit += "-dirty"
	}
}

// CheckLatestVersion avisa no terminal quando há uma release mais nova.
func CheckLatestVersion(currentVersion string) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if latest, ok := LatestVersion(ctx, currentVersion); ok {
		pterm.Warning.Println(fmt.Sprintf("arch-schedule %s is available (you have %s)", latest, currentVersion))
		pterm.Info.Println("Update with: " + installHint)
	}
}

// LatestVersion devolve a última release quando ela é mais nova que
// currentVersion. Versões de desenvolvimento nunca são comparadas.
func LatestVersion(ctx context.Context, currentVersion string) (string, bool) {
	current := canonical(currentVersion)
	if current == "" || semver.Prerelease(current) == "-dev" {
		return "", false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ReleaseURL, nil)
	if err != nil {
		return "", false
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", false
	}

	var release struct {
		TagName string `json:"tag_name"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&release); err != nil {
		return "", false
	}

	latest := canonical(release.TagName)
	if latest == "" || semver.Compare(latest, current) <= 0 {
		return "", false
	}
	return strings.TrimPrefix(latest, "v"), true
}

// canonical devolve "v"+v quando v é semver válido, ou "".
func canonical(v string) string {
	v = "v" + strings.TrimPrefix(v, "v")
	if !semver.IsValid(v) {
		return ""
	}
	return v
}

// FormatVersion retorna a versão com commit e horário do build.
// Ex.: "1.2.3 (commit: abc1234, built at: 2025-10-23T10:20:30Z)"
func FormatVersion() string {
	ver := Version
	if ver == "" {
		ver = devVersion
	}

	switch {
	case Commit == "" && BuildTime == "":
		return ver + " (development)"
	case BuildTime == "":
		return fmt.Sprintf("%s (commit: %s)", ver, Commit)
	}

	commit := Commit
	if commit == "" {
		commit = "development"
	}
	return fmt.Sprintf("%s (commit: %s, built at: %s)", ver, commit, BuildTime)
}
