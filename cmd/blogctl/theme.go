package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *cli) themeCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "theme [toggle|dark|light]",
		Short:     "Show or change the color theme",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"toggle", "dark", "light"},
		RunE: func(cmd *cobra.Command, args []string) error {
			theme := c.app.Theme
			if len(args) == 1 {
				var err error
				switch args[0] {
				case "toggle":
					_, err = theme.Toggle(cmd.Context())
				case "dark":
					err = theme.Set(cmd.Context(), true)
				case "light":
					err = theme.Set(cmd.Context(), false)
				default:
					err = fmt.Errorf("unknown theme %q", args[0])
				}
				if err != nil {
					return err
				}
			}

			name := "light"
			if theme.IsDark() {
				name = "dark"
			}
			_, _ = c.palette().Title.Fprintf(c.out, "%s\n", name)
			return nil
		},
	}
}
