package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"book_music/internal/shift"
)

type chapterShifts struct {
	Chapter int          `json:"chapter"`
	Title   string       `json:"title"`
	Result  shift.Result `json:"result"`
}

func newShiftsCommand(ctx *commandContext) *cobra.Command {
	var pagesPerChapter int

	cmd := &cobra.Command{
		Use:   "shifts <file>",
		Short: "Show mood shift points within each chapter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ctx.setup(); err != nil {
				return err
			}
			b, project, err := ctx.openBook(args[0])
			if err != nil {
				return err
			}

			s := ctx.newSession(project.DBPath, nil)
			if err := s.Open(cmd.Context(), b); err != nil {
				return err
			}
			a := s.Analysis()

			all := make([]chapterShifts, 0, len(b.Chapters))
			for i, ch := range b.Chapters {
				result := shift.AnalyzeChapterSections(
					ch.Content, a.Chapters[i].PrimaryMood, pagesPerChapter,
					ctx.settings.Playback.MaxShiftsPerChapter)
				all = append(all, chapterShifts{Chapter: i + 1, Title: ch.Title, Result: result})
			}

			if ctx.jsonOutput() {
				raw, err := json.MarshalIndent(all, "", "  ")
				if err != nil {
					return fmt.Errorf("encode shifts: %w", err)
				}
				fmt.Println(string(raw))
				return nil
			}

			rows := [][]string{}
			for _, cs := range all {
				if len(cs.Result.ShiftPoints) == 0 {
					rows = append(rows, []string{
						strconv.Itoa(cs.Chapter), cs.Title, "-", "no shifts", "-", "-",
					})
					continue
				}
				for _, p := range cs.Result.ShiftPoints {
					rows = append(rows, []string{
						strconv.Itoa(cs.Chapter),
						cs.Title,
						strconv.Itoa(p.Page),
						fmt.Sprintf("%s -> %s", p.FromMood, p.ToMood),
						strconv.Itoa(p.ShiftScore),
						strconv.Itoa(p.Confidence),
					})
				}
			}
			fmt.Println(renderTable(
				[]string{"Ch", "Chapter", "Page", "Shift", "Score", "Confidence"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft, alignRight, alignRight},
			))
			return nil
		},
	}
	cmd.Flags().IntVar(&pagesPerChapter, "pages-per-chapter", 10, "Pages to paginate each chapter into")
	return cmd
}
