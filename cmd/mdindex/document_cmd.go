package main

import (
	"fmt"
	"io"
	"os"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/hyperjump/mdindex/internal/cli"
	"github.com/hyperjump/mdindex/internal/headings"
	"github.com/hyperjump/mdindex/internal/render"
)

func showCmd(opts *globalOptions) *cobra.Command {
	var (
		renderAs string
		toc      bool
		width    int
	)
	cmd := &cobra.Command{
		Use:   "show <file>",
		Short: "Print one file with its metadata, or render it",
		Example: `  mdindex show notes/intro.md
  mdindex show --render terminal notes/intro.md
  mdindex show --render html --toc notes/intro.md > intro.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts, false)
			if err != nil {
				return err
			}
			defer a.close()
			doc, err := a.engine.LoadDocument(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch renderAs {
			case "":
				return cli.WriteDocument(out, doc, a.format)
			case "html":
				html, err := render.HTML(doc.Body, toc)
				if err != nil {
					return err
				}
				_, err = io.WriteString(out, html)
				return err
			case "terminal":
				body := doc.Body
				if toc {
					if t := headings.TOC(headings.Extract(body)); t != "" {
						body = t + "\n" + body
					}
				}
				text, err := render.Terminal(body, width, !isTerminal(out))
				if err != nil {
					return err
				}
				_, err = io.WriteString(out, text)
				return err
			default:
				return fmt.Errorf("unknown render mode %q (want html or terminal)", renderAs)
			}
		},
	}
	cmd.Flags().StringVar(&renderAs, "render", "", "render instead of printing: html or terminal")
	cmd.Flags().BoolVar(&toc, "toc", false, "prepend a table of contents when rendering")
	cmd.Flags().IntVar(&width, "width", render.DefaultWidth, "word-wrap width for terminal rendering")
	return cmd
}

func headingsCmd(opts *globalOptions) *cobra.Command {
	var toc bool
	cmd := &cobra.Command{
		Use:   "headings <file|->",
		Short: "List the headings of a file, or print its table of contents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := cli.ParseFormat(opts.output)
			if err != nil {
				return err
			}
			text, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			return cli.WriteHeadings(cmd.OutOrStdout(), headings.Extract(text), toc, format)
		},
	}
	cmd.Flags().BoolVar(&toc, "toc", false, "print a markdown table of contents")
	return cmd
}

func frontmatterCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "frontmatter <file|->",
		Short: "Print the frontmatter fields of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts, false)
			if err != nil {
				return err
			}
			defer a.close()
			text, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			fm, _ := a.engine.ParseFrontmatter(text)
			return cli.WriteFrontmatter(cmd.OutOrStdout(), fm, a.format)
		},
	}
}

// readInput reads path, or the command's stdin when path is "-".
func readInput(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// isTerminal reports whether w is a terminal that can show colors.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return termenv.NewOutput(f).Profile != termenv.Ascii
}
