// Package magick implements the raster conversion adapter on top of the
// ImageMagick command line tools.
package magick

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"go.fstop.ch/fstop/internal/core/domain"
	"go.fstop.ch/fstop/internal/core/ports"
	"go.trai.ch/zerr"
)

// DefaultTimeout bounds a single external invocation. A conversion that
// runs longer is killed and reported as a conversion failure.
const DefaultTimeout = 2 * time.Minute

// Converter invokes the magick binary for probing and conversion.
type Converter struct {
	bin     string
	timeout time.Duration
}

// NewConverter locates the magick binary on PATH. It returns
// domain.ErrConverterUnavailable when the tool is not installed.
func NewConverter() (*Converter, error) {
	bin, err := exec.LookPath("magick")
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrConverterUnavailable.Error())
	}
	return &Converter{bin: bin, timeout: DefaultTimeout}, nil
}

// WithTimeout overrides the per-invocation timeout.
func (c *Converter) WithTimeout(d time.Duration) *Converter {
	c.timeout = d
	return c
}

// Identify probes the intrinsic dimensions of the source file.
func (c *Converter) Identify(ctx context.Context, path string) (domain.Dimensions, error) {
	out, err := c.run(ctx, "identify", "-format", "%w %h", path+"[0]")
	if err != nil {
		return domain.Dimensions{}, zerr.With(
			zerr.Wrap(err, domain.ErrProbeFailed.Error()),
			"path", path,
		)
	}

	fields := strings.Fields(strings.TrimSpace(out))
	if len(fields) != 2 {
		return domain.Dimensions{}, zerr.With(domain.ErrProbeFailed, "output", out)
	}

	w, werr := strconv.Atoi(fields[0])
	h, herr := strconv.Atoi(fields[1])
	if werr != nil || herr != nil {
		return domain.Dimensions{}, zerr.With(domain.ErrProbeFailed, "output", out)
	}

	return domain.Dimensions{Width: w, Height: h}, nil
}

// Convert produces one derived file. The destination extension selects
// the magick output encoder, so the request format and destination must
// agree; the generator names destinations via domain.VariantFilename.
func (c *Converter) Convert(ctx context.Context, req ports.ConvertRequest) error {
	args := []string{req.Source + "[0]", "-auto-orient"}
	if req.StripMetadata {
		args = append(args, "-strip")
	}
	args = append(args,
		"-resize", fmt.Sprintf("%dx", req.Width),
		"-quality", strconv.Itoa(req.Quality),
		req.Dest,
	)

	if _, err := c.run(ctx, args...); err != nil {
		err = zerr.Wrap(err, domain.ErrConversionFailed.Error())
		err = zerr.With(err, "source", req.Source)
		err = zerr.With(err, "width", req.Width)
		err = zerr.With(err, "format", string(req.Format))
		return err
	}
	return nil
}

func (c *Converter) run(ctx context.Context, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.bin, args...) //nolint:gosec // args are built from typed requests
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", zerr.With(zerr.Wrap(ctx.Err(), "invocation timed out"), "timeout", c.timeout.String())
		}
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		err = zerr.Wrap(err, "magick invocation failed")
		err = zerr.With(err, "exit_code", exitCode)
		err = zerr.With(err, "stderr", strings.TrimSpace(stderr.String()))
		return "", err
	}

	return stdout.String(), nil
}
