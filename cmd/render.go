package main

import (
	"bufio"
	"os"

	"github.com/Kyz7/landing/internal/renderer"
	"github.com/Kyz7/landing/internal/sections"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render <sections.json>",
	Short: "Render a section document to HTML on stdout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		doc, err := sections.Decode(data)
		if err != nil {
			return errors.Wrapf(err, "decode %s", args[0])
		}

		name, _ := cmd.Flags().GetString("name")
		title, _ := cmd.Flags().GetString("title")

		r, err := renderer.NewHTMLRenderer()
		if err != nil {
			return err
		}

		out := bufio.NewWriter(cmd.OutOrStdout())
		err = r.Page(out, renderer.PageView{
			Name:          name,
			Title:         title,
			EnquiryAction: "#",
			Preview:       true,
			Blocks:        renderer.RenderPage(renderer.Page{Name: name, Title: title}, sections.Hydrate(doc)),
		})
		if err != nil {
			return err
		}
		return out.Flush()
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().String("name", "Landing page", "Page name used when a section leaves it empty")
	renderCmd.Flags().String("title", "", "Page title used when a section leaves it empty")
}
