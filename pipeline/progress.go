package pipeline

import (
	"io"

	"github.com/cheggaaa/pb/v3"
)

// progress is a stage counter drawn with pb; the zero value draws nothing
type progress struct {
	bar *pb.ProgressBar
}

func newProgress(w io.Writer, total int) *progress {
	if w == nil {
		return &progress{}
	}
	bar := pb.Full.New(total)
	bar.SetWriter(w)
	bar.Set(pb.CleanOnFinish, true)
	bar.Start()
	return &progress{bar: bar}
}

// stage labels the bar with the stage about to run and counts the previous one
func (p *progress) stage(name string) {
	if p.bar == nil {
		return
	}
	if p.bar.Get("prefix") != nil {
		p.bar.Increment()
	}
	p.bar.Set("prefix", name+" ")
}

func (p *progress) finish() {
	if p.bar == nil {
		return
	}
	p.bar.SetCurrent(p.bar.Total())
	p.bar.Finish()
}
