package codefont

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/go-text/typesetting/font/opentype"
)

// ErrVerification is returned by Verify for fonts which are not fit for use.
var ErrVerification = errors.New("font verification failed")

// Verify re-reads a generated font file with an independent OpenType parser.
// The font has to parse, has to carry the tables code editors rely on and
// must not carry a STAT table.
func Verify(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	ld, err := opentype.NewLoader(bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrVerification, path, err)
	}
	if ld.HasTable(opentype.MustNewTag("STAT")) {
		return fmt.Errorf("%w: %s: still carries table STAT", ErrVerification, path)
	}
	for _, tag := range []string{"head", "name", "OS/2", "post"} {
		if _, err := ld.RawTable(opentype.MustNewTag(tag)); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrVerification, path, err)
		}
	}
	post, _ := ld.RawTable(opentype.MustNewTag("post"))
	if len(post) < 16 || post[12]|post[13]|post[14]|post[15] == 0 {
		return fmt.Errorf("%w: %s: not flagged as fixed pitch", ErrVerification, path)
	}
	tracer().Debugf("verified %s: %d tables", path, len(ld.Tables()))
	return nil
}
