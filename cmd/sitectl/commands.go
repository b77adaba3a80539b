package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"sitecms/internal/model"
	"sitecms/internal/service"
	"sitecms/internal/sitesync"
)

func newPullCmd(opts *rootOptions) *cobra.Command {
	var format, out string
	var reveal bool
	cmd := &cobra.Command{
		Use:   "pull",
		Short: "Load the site document (network, then cache, then defaults) and print it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, _, release, err := newClient(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer release()

			doc := client.Load(cmd.Context())
			if doc.Tracking != nil && !reveal {
				doc.Tracking.CapiToken = doc.Tracking.MaskedToken()
			}

			var w io.Writer = cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return errorf("create %s: %w", out, err)
				}
				defer f.Close()
				w = f
			}
			return encodeDocument(w, doc, format)
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "output format: json or yaml")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write to file instead of stdout")
	cmd.Flags().BoolVar(&reveal, "reveal-secrets", false, "print tracking.capiToken unmasked")
	return cmd
}

func newPushCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "push <file>",
		Short: "Replace the stored site document with the contents of file (JSON or YAML)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(args[0])
			if err != nil {
				return err
			}

			client, logger, release, err := newClient(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer release()

			sess, src := openSession(cmd.Context(), client, logger)
			if err := restoreMaskedToken(&doc, sess.Document(), src); err != nil {
				return err
			}
			sess.Replace(doc)
			return saveSession(cmd, sess, opts)
		},
	}
}

// restoreMaskedToken swaps a masked capiToken, as written by "pull", for the real one in
// current. It fails rather than let a save overwrite the stored secret with the mask or
// with nothing.
func restoreMaskedToken(doc *model.SiteContent, current model.SiteContent, src sitesync.Source) error {
	if doc.Tracking == nil || !isMasked(doc.Tracking.CapiToken) {
		return nil
	}
	if current.Tracking == nil || current.Tracking.MaskedToken() != doc.Tracking.CapiToken {
		return errorf("cannot restore masked capiToken from the %s copy; re-pull with --reveal-secrets", src)
	}
	doc.Tracking.CapiToken = current.Tracking.CapiToken
	return nil
}

func newLeadCmd(opts *rootOptions) *cobra.Command {
	var name, email string
	cmd := &cobra.Command{
		Use:   "lead",
		Short: "Send a lead event; failures are logged, never returned",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, _, release, err := newClient(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer release()

			client.NotifyLead(cmd.Context(), name, email)
			cmd.Println("lead event sent")
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "contact name")
	cmd.Flags().StringVar(&email, "email", "", "contact email")
	return cmd
}

func newHashPasswordCmd() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "hash-password",
		Short: "Print a bcrypt hash for ADMIN_PASSWORD_HASH (reads stdin when --password is empty)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && err != io.EOF {
					return errorf("read password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}
			if password == "" {
				return errorf("empty password")
			}
			h, err := service.HashPassword(password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), h)
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "password to hash")
	return cmd
}

func encodeDocument(w io.Writer, doc model.SiteContent, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "    ")
		return enc.Encode(doc)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(doc)
	default:
		return errorf("unknown format %q", format)
	}
}

func readDocument(path string) (model.SiteContent, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return model.SiteContent{}, errorf("read %s: %w", path, err)
	}
	var doc model.SiteContent
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &doc)
	default:
		err = json.Unmarshal(b, &doc)
	}
	if err != nil {
		return model.SiteContent{}, errorf("decode %s: %w", path, err)
	}
	return doc, nil
}

func isMasked(token string) bool {
	return strings.HasPrefix(token, "****")
}
