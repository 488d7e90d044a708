package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Analyze a book's chapter moods",
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

			if ctx.jsonOutput() {
				raw, err := json.MarshalIndent(a, "", "  ")
				if err != nil {
					return fmt.Errorf("encode analysis: %w", err)
				}
				fmt.Println(string(raw))
				return nil
			}

			fmt.Printf("%s: dominant mood %s, average energy %d/5, %s tempo\n\n",
				a.Profile.Title, a.Profile.DominantMood, a.Profile.AverageEnergy, a.Profile.Tempo)

			rows := make([][]string, 0, len(a.Chapters))
			for i, ch := range a.Chapters {
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					ch.ChapterTitle,
					string(ch.PrimaryMood),
					strconv.Itoa(ch.Energy),
					ch.Tempo,
					strings.Join(ch.MusicTags, ", "),
				})
			}
			fmt.Println(renderTable(
				[]string{"#", "Chapter", "Mood", "Energy", "Tempo", "Music Tags"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	}
	return cmd
}
