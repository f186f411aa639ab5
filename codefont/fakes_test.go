package codefont

import (
	"context"
	"fmt"
	"sync"

	"github.com/npillmayer/recmono/config"
	"github.com/npillmayer/recmono/internal/testfont"
	"github.com/npillmayer/recmono/toolchain"
)

// fakeTools replaces the external programs. The instancer writes a static
// font carrying the names of Recursive's default instance, the other tools
// only record their invocations.
type fakeTools struct {
	mu        sync.Mutex
	locations [][]config.AxisValue
	frozen    []string
	features  []string
	converted []string
	failOn    string // "freeze" or "convert"
}

func (ft *fakeTools) Instantiate(ctx context.Context, src, dst string, loc []config.AxisValue) error {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	ft.locations = append(ft.locations, loc)
	return testfont.WriteFile(dst, testfont.Static())
}

func (ft *fakeTools) Freeze(ctx context.Context, path string, features []string) error {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	if ft.failOn == "freeze" {
		return fmt.Errorf("%w: pyftfeatfreeze: exit status 1", toolchain.ErrToolFailed)
	}
	ft.frozen = append(ft.frozen, path)
	ft.features = features
	return nil
}

func (ft *fakeTools) Convert(ctx context.Context, path string) error {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	if ft.failOn == "convert" {
		return fmt.Errorf("%w: dlig2calt: exit status 1", toolchain.ErrToolFailed)
	}
	ft.converted = append(ft.converted, path)
	return nil
}

func (ft *fakeTools) toolchain() toolchain.Toolchain {
	return toolchain.Toolchain{
		Instancer:         ft,
		FeatureFreezer:    ft,
		LigatureConverter: ft,
		CollectionBuilder: toolchain.NativeCollectionBuilder{},
	}
}

// failingBuilder stands in for an otf2otc exiting with an error.
type failingBuilder struct{}

func (failingBuilder) Build(ctx context.Context, fonts []string, dst string) error {
	return fmt.Errorf("%w: otf2otc: exit status 2", toolchain.ErrToolFailed)
}
