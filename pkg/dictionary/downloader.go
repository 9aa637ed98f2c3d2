package dictionary

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/japaniel/podvocab/pkg/fsutil"
)

// Release identifies a GitHub release asset holding a dictionary file.
type Release struct {
	Owner string
	Repo  string
	// Asset must be contained in the asset name.
	Asset string
}

// Known dictionary releases.
var (
	JMdictRelease  = Release{Owner: "scriptin", Repo: "jmdict-simplified", Asset: "jmdict-eng-common"}
	WordNetRelease = Release{Owner: "globalwordnet", Repo: "english-wordnet", Asset: "english-wordnet"}
)

// ReleaseFor returns the default release for lang.
func ReleaseFor(lang string) (Release, error) {
	switch lang {
	case "", "en":
		return WordNetRelease, nil
	case "ja":
		return JMdictRelease, nil
	}
	return Release{}, fmt.Errorf("no dictionary release for language %q", lang)
}

// Downloader fetches dictionary files.
type Downloader struct {
	Client *http.Client
	// APIBase is the GitHub API root; tests point it at a local server.
	APIBase string
	Logger  *slog.Logger
}

// NewDownloader returns a downloader using the public GitHub API.
func NewDownloader(logger *slog.Logger) *Downloader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Downloader{
		Client:  &http.Client{Timeout: 5 * time.Minute},
		APIBase: "https://api.github.com",
		Logger:  logger,
	}
}

// EnsureDictionary leaves an existing file at path alone. Otherwise it finds
// the latest release asset, downloads it, unpacks it and writes the JSON to path.
func (d *Downloader) EnsureDictionary(ctx context.Context, path string, rel Release) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}

	d.Logger.Info("dictionary not found, downloading", "path", path, "repo", rel.Owner+"/"+rel.Repo)
	assetURL, err := d.latestAssetURL(ctx, rel)
	if err != nil {
		return fmt.Errorf("failed to find latest dictionary release: %w", err)
	}
	d.Logger.Info("downloading dictionary", "url", assetURL)
	return d.downloadAndExtract(ctx, assetURL, path)
}

func (d *Downloader) latestAssetURL(ctx context.Context, rel Release) (string, error) {
	apiURL := fmt.Sprintf("%s/repos/%s/%s/releases/latest", strings.TrimSuffix(d.APIBase, "/"), rel.Owner, rel.Repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return "", err
	}
	// GitHub requires a User-Agent.
	req.Header.Set("User-Agent", "podvocab-cli")

	resp, err := d.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("github api returned status: %s", resp.Status)
	}

	var release struct {
		Assets []struct {
			Name               string `json:"name"`
			BrowserDownloadURL string `json:"browser_download_url"`
		} `json:"assets"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", err
	}
	for _, asset := range release.Assets {
		if !strings.Contains(asset.Name, rel.Asset) {
			continue
		}
		if strings.HasSuffix(asset.Name, ".json.tgz") || strings.HasSuffix(asset.Name, ".json.gz") || strings.HasSuffix(asset.Name, ".json") {
			return asset.BrowserDownloadURL, nil
		}
	}
	return "", fmt.Errorf("no suitable dictionary asset found in latest release")
}

func (d *Downloader) downloadAndExtract(ctx context.Context, url, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := d.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download failed: %s", resp.Status)
	}

	data, err := extractJSON(url, resp.Body)
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(destPath, data, 0o644)
}

// extractJSON unpacks .json.tgz, .json.gz or plain .json payloads.
func extractJSON(name string, r io.Reader) ([]byte, error) {
	if strings.HasSuffix(name, ".json") {
		return io.ReadAll(r)
	}
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gz.Close()
	if strings.HasSuffix(name, ".json.gz") {
		return io.ReadAll(gz)
	}

	tr := tar.NewReader(gz)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading tar archive: %w", err)
		}
		if header.Typeflag == tar.TypeReg && strings.HasSuffix(header.Name, ".json") {
			var buf bytes.Buffer
			if _, err := io.Copy(&buf, tr); err != nil {
				return nil, fmt.Errorf("failed to read archive member: %w", err)
			}
			return buf.Bytes(), nil
		}
	}
	return nil, fmt.Errorf("no json file found in downloaded archive")
}
