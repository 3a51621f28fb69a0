package view

import (
	"fmt"
	"time"

	//lint:ignore ST1001 Dot import for concise Tk widget DSL.
	. "modernc.org/tk9.0"
)

// ClipStats shows the running clip length and the total recorded time.
type ClipStats interface {
	SetClip(clip, total time.Duration)
}

type clipStats struct {
	clipLbl  *LabelWidget
	totalLbl *LabelWidget
	last     [2]int
}

// NewClipStats creates clip and total labels at (row, startCol) and (row, startCol+1) of parent.
func NewClipStats(parent *FrameWidget, row, startCol int) ClipStats {
	s := &clipStats{clipLbl: Label(Width(12)), totalLbl: Label(Width(12)), last: [2]int{-1, -1}}
	Grid(s.clipLbl, In(parent), Row(row), Column(startCol), Sticky("w"), Padx("0.2m"))
	Grid(s.totalLbl, In(parent), Row(row), Column(startCol+1), Sticky("w"), Padx("0.2m"))
	s.SetClip(0, 0)
	return s
}

func (s *clipStats) SetClip(clip, total time.Duration) {
	if s == nil || s.clipLbl == nil || s.totalLbl == nil {
		return
	}
	c, t := int(clip.Seconds()), int(total.Seconds())
	if s.last == [2]int{c, t} {
		return
	}
	s.last = [2]int{c, t}
	s.clipLbl.Configure(Txt(fmt.Sprintf("Clip: %02d:%02d", c/60, c%60)))
	s.totalLbl.Configure(Txt(fmt.Sprintf("Total: %02d:%02d", t/60, t%60)))
}
