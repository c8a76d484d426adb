// © 2026 danielgzd. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package speedtest runs CloudflareSpeedTest and collects the fastest IPs it
// finds.
//
// A run is linear: resolve the release archive for the platform, download
// and extract it, run the binary in a working directory, then read the CSV
// it produced and write the best IPs to a text file.
package speedtest

import (
	"archive/tar"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/danielgzd/MyAutoScript/internal/atomicio"
	"github.com/danielgzd/MyAutoScript/internal/logger"
	"github.com/danielgzd/MyAutoScript/internal/request"

	"github.com/klauspost/compress/gzip"
)

const releasesURL = "https://github.com/XIU2/CloudflareSpeedTest/releases"

// DownloadTimeout is the timeout of archive downloads made without a custom
// HTTP client.
const DownloadTimeout = 60 * time.Second

// DefaultResultFile is the CSV file the binary is told to write when its
// arguments don't name one.
const DefaultResultFile = "result.csv"

var (
	// ErrUnsupportedPlatform is returned by ArchiveURL for platforms without a
	// release archive.
	ErrUnsupportedPlatform = errors.New("unsupported platform")
	// ErrNoResult is returned by Runner.Run when the binary exited
	// successfully but didn't produce a CSV file.
	ErrNoResult = errors.New("no result file produced")
)

var downloadClient = &http.Client{Timeout: DownloadTimeout}

// ArchiveURL returns the URL of the release archive for the given platform.
// A non-empty override is returned as is. An empty version or "latest"
// selects the latest release.
func ArchiveURL(goos, goarch, version, override string) (string, error) {
	if override != "" {
		return override, nil
	}

	switch goos {
	case "linux", "darwin":
	default:
		return "", fmt.Errorf("%w: %s/%s (set an archive URL to override)", ErrUnsupportedPlatform, goos, goarch)
	}
	switch goarch {
	case "amd64", "arm64":
	default:
		return "", fmt.Errorf("%w: %s/%s (set an archive URL to override)", ErrUnsupportedPlatform, goos, goarch)
	}

	base := releasesURL + "/latest/download/"
	if version != "" && version != "latest" {
		base = releasesURL + "/download/" + version + "/"
	}
	return base + "cfst_" + goos + "_" + goarch + ".tar.gz", nil
}

// Download saves the archive at src to dst. src is either an HTTP(S) URL,
// fetched with httpc, or a local file path. If httpc is nil, a client with
// DownloadTimeout is used.
func Download(ctx context.Context, httpc *http.Client, src, dst string) error {
	if !strings.Contains(src, "://") {
		b, err := os.ReadFile(src)
		if err != nil {
			return err
		}
		return atomicio.WriteFile(dst, b, 0o644)
	}

	if httpc == nil {
		httpc = downloadClient
	}
	b, err := request.Make(ctx, request.Params{
		Method:     http.MethodGet,
		URL:        src,
		HTTPClient: httpc,
	})
	if err != nil {
		return err
	}
	return atomicio.WriteFile(dst, b, 0o644)
}

// executableNames are the names the binary has had across releases, in
// order of preference.
var executableNames = []string{"cfst", "CloudflareST"}

// Extract unpacks the gzip-compressed tar archive into dir and returns the
// path of the binary found at its top level, made executable. If none of the
// known names is present, the first regular file in lexical order is used.
func Extract(archive, dir string) (string, error) {
	f, err := os.Open(archive)
	if err != nil {
		return "", err
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", archive, err)
	}
	defer zr.Close()

	tr := tar.NewReader(zr)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", archive, err)
		}
		if err := extractEntry(tr, hdr, dir); err != nil {
			return "", err
		}
	}

	exe, err := findExecutable(dir)
	if err != nil {
		return "", err
	}
	if err := os.Chmod(exe, 0o755); err != nil {
		return "", err
	}
	return exe, nil
}

func extractEntry(tr *tar.Reader, hdr *tar.Header, dir string) error {
	if filepath.Clean(hdr.Name) == "." {
		return nil
	}
	dst := filepath.Join(dir, hdr.Name)
	if !strings.HasPrefix(dst, filepath.Clean(dir)+string(os.PathSeparator)) {
		return fmt.Errorf("archive entry %q escapes the destination directory", hdr.Name)
	}

	switch hdr.Typeflag {
	case tar.TypeDir:
		return os.MkdirAll(dst, 0o755)
	case tar.TypeReg:
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return err
		}
		out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			return err
		}
		if _, err := io.Copy(out, tr); err != nil {
			out.Close()
			return err
		}
		return out.Close()
	}
	// Links and special files aren't needed to run the binary.
	return nil
}

func findExecutable(dir string) (string, error) {
	for _, name := range executableNames {
		p := filepath.Join(dir, name)
		if fi, err := os.Stat(p); err == nil && fi.Mode().IsRegular() {
			return p, nil
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	for _, e := range entries {
		if e.Type().IsRegular() {
			return filepath.Join(dir, e.Name()), nil
		}
	}
	return "", fmt.Errorf("no executable found in archive (looked for %s)", strings.Join(executableNames, ", "))
}

// Args splits the argument string s on whitespace. If the arguments don't
// name an output file, "-o result.csv" is appended.
func Args(s string) []string {
	args := strings.Fields(s)
	for _, arg := range args {
		if _, ok := outputFlag(arg); ok {
			return args
		}
	}
	return append(args, "-o", DefaultResultFile)
}

// ResultFile returns the CSV file named by the last output flag in args, or
// DefaultResultFile if there is none.
func ResultFile(args []string) string {
	file := DefaultResultFile
	for i := 0; i < len(args); i++ {
		val, ok := outputFlag(args[i])
		if !ok {
			continue
		}
		if val != "" {
			file = val
			continue
		}
		if i+1 < len(args) {
			file = args[i+1]
			i++
		}
	}
	return file
}

// outputFlag reports whether arg is an output flag, and returns its inline
// value if it has the "-o=file" form.
func outputFlag(arg string) (value string, ok bool) {
	for _, name := range []string{"-o", "--output"} {
		if arg == name {
			return "", true
		}
		if v, found := strings.CutPrefix(arg, name+"="); found {
			return v, true
		}
	}
	return "", false
}

// Exec runs the binary exe with args in dir and waits for it to exit. A
// non-zero exit status is an error. Nil stdout or stderr discard the output.
func Exec(ctx context.Context, exe, dir string, args []string, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, exe, args...)
	cmd.Dir = dir
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("running %s: %w", filepath.Base(exe), err)
	}
	return nil
}

// Runner runs the speed test end to end. The zero value downloads the latest
// release for the current platform, runs it with no extra arguments in the
// current directory and writes every IP found to best_ip.txt.
type Runner struct {
	// URL overrides the archive location. It may be a local file path.
	URL string
	// Version selects the release. Empty means the latest one.
	Version string
	// Args is the argument string passed to the binary.
	Args string
	// Dir is the working directory of the binary. Relative result and output
	// paths are resolved against it. Empty means the current directory.
	Dir string
	// Output is the file the IPs are written to. Empty means "best_ip.txt".
	Output string
	// Top limits the number of IPs written. Zero or less means no limit.
	Top int

	HTTPClient *http.Client
	Logger     *slog.Logger
	// Stdout and Stderr receive the output of the binary.
	Stdout, Stderr io.Writer

	// GOOS and GOARCH select the platform of the archive. Empty values mean
	// the platform the program runs on.
	GOOS, GOARCH string
}

// Run performs the speed test and returns the IPs written to the output
// file. If the binary doesn't produce a CSV file, the error wraps
// ErrNoResult.
func (r *Runner) Run(ctx context.Context) ([]string, error) {
	log := logger.Or(r.Logger)

	goos, goarch := r.GOOS, r.GOARCH
	if goos == "" {
		goos = runtime.GOOS
	}
	if goarch == "" {
		goarch = runtime.GOARCH
	}
	src, err := ArchiveURL(goos, goarch, r.Version, r.URL)
	if err != nil {
		return nil, err
	}

	scratch, err := os.MkdirTemp("", "cfst-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(scratch)

	log.Info("downloading", "url", src)
	archive := filepath.Join(scratch, "cfst.tar.gz")
	if err := Download(ctx, r.HTTPClient, src, archive); err != nil {
		return nil, fmt.Errorf("downloading archive: %w", err)
	}

	bin := filepath.Join(scratch, "bin")
	if err := os.Mkdir(bin, 0o755); err != nil {
		return nil, err
	}
	exe, err := Extract(archive, bin)
	if err != nil {
		return nil, fmt.Errorf("extracting archive: %w", err)
	}

	dir := r.Dir
	if dir == "" {
		dir = "."
	}
	args := Args(r.Args)
	log.Info("running", "binary", filepath.Base(exe), "args", strings.Join(args, " "))
	if err := Exec(ctx, exe, dir, args, r.Stdout, r.Stderr); err != nil {
		return nil, err
	}

	result := resolve(dir, ResultFile(args))
	f, err := os.Open(result)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNoResult, result)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ips, err := ParseCSV(f, r.Top)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", result, err)
	}
	if len(ips) == 0 {
		log.Warn("no IPs found in result, output will be empty", "result", result)
	}

	output := r.Output
	if output == "" {
		output = "best_ip.txt"
	}
	output = resolve(dir, output)
	if err := WriteIPs(output, ips); err != nil {
		return nil, err
	}
	log.Info("wrote IPs", "file", output, "count", len(ips))
	return ips, nil
}

func resolve(dir, name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(dir, name)
}

// WriteIPs writes ips to path, one per line. The file is written atomically
// and is created empty when there are no IPs.
func WriteIPs(path string, ips []string) error {
	return atomicio.WriteLines(path, ips, 0o644)
}
