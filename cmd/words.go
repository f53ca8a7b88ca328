package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thomnico/fiches-mots/internal/wordgen"
)

func newWordsCmd(a *app) *cobra.Command {
	var (
		theme    string
		count    int
		exclude  []string
		endpoint string
	)

	cmd := &cobra.Command{
		Use:   "words",
		Short: "Suggest a themed word list for preschool children",
		Long: `Asks the configured language model (Mistral by default) for concrete
words on a theme, one per line. With --endpoint the request goes to a remote
word generation API instead, retried on server errors.`,
		Example: `  fiches words --theme automne
  fiches words --theme "animaux de la ferme" --count 8 --exclude vache,cochon`,
		RunE: func(cmd *cobra.Command, args []string) error {
			gen, err := newWordGenerator(a.cfg, endpoint)
			if err != nil {
				return err
			}

			resp, err := gen.Generate(cmd.Context(), wordgen.Request{
				Theme:        theme,
				Count:        count,
				ExcludeWords: exclude,
			})
			if err != nil {
				return err
			}

			for _, w := range resp.Words {
				fmt.Fprintln(cmd.OutOrStdout(), w)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&theme, "theme", "t", "", "Theme of the word list")
	cmd.Flags().IntVarP(&count, "count", "n", wordgen.DefaultCount, "Number of words (5 to 20)")
	cmd.Flags().StringSliceVarP(&exclude, "exclude", "x", nil, "Words already used")
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "Remote word generation endpoint")
	_ = cmd.MarkFlagRequired("theme")

	return cmd
}
