package autotune

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/cognicore/tweetcloud/pkg/tweetcloud/stoplist"
)

// PromptReviewer asks an operator to approve each candidate. Anything but
// "y" or "yes" rejects; end of input rejects everything left.
type PromptReviewer struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPromptReviewer reads answers from in and writes prompts to out.
func NewPromptReviewer(in io.Reader, out io.Writer) *PromptReviewer {
	return &PromptReviewer{in: bufio.NewReader(in), out: out}
}

// Approve implements Reviewer.
func (p *PromptReviewer) Approve(ctx context.Context, cand stoplist.Candidate) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	fmt.Fprintf(p.out, "add %q (in %.0f%% of results, %d uses)? [y/N] ", cand.Token, cand.DFPercent, cand.Count)

	line, err := p.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
