package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/variantlabs/annosync/internal/core/domain"
	"github.com/variantlabs/annosync/internal/core/ports/driving"
)

var (
	flagLinkMap         []string
	flagLinkPush        bool
	flagLinkPull        bool
	flagLinkCreate      bool
	flagLinkTitle       string
	flagLinkLabelConfig string
)

var linkCmd = &cobra.Command{
	Use:   "link TABLE PROJECT_ID",
	Short: "Link a table to an annotation project",
	Long: `Creates a link between a local table and a remote project.

Column mappings are given as --map local=remote pairs. A link that pulls
annotations must map a column to the reserved "annotations" field:

  annosync link frames 42 --map frame=image --map results=annotations --push --pull

With --create, a new remote project is created instead (PROJECT_ID is
omitted) using --title and --label-config.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runLink,
}

var linksCmd = &cobra.Command{
	Use:   "links",
	Short: "List project links",
	RunE:  runLinks,
}

var unlinkCmd = &cobra.Command{
	Use:   "unlink LINK_ID",
	Short: "Remove a project link",
	Long:  `Removes a link. Neither the table nor the remote project is touched.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runUnlink,
}

func init() {
	linkCmd.Flags().StringArrayVar(&flagLinkMap, "map", nil, "column mapping as local=remote (repeatable)")
	linkCmd.Flags().BoolVar(&flagLinkPush, "push", false, "push unsynced rows as new tasks")
	linkCmd.Flags().BoolVar(&flagLinkPull, "pull", false, "pull annotations back into the table")
	linkCmd.Flags().BoolVar(&flagLinkCreate, "create", false, "create a new remote project")
	linkCmd.Flags().StringVar(&flagLinkTitle, "title", "", "title for the created project")
	linkCmd.Flags().StringVar(&flagLinkLabelConfig, "label-config", "", "label config XML for the created project")
	rootCmd.AddCommand(linkCmd)
	rootCmd.AddCommand(linksCmd)
	rootCmd.AddCommand(unlinkCmd)
}

func runLink(cmd *cobra.Command, args []string) error {
	if syncer == nil {
		return errors.New("sync service not configured")
	}

	req := driving.LinkRequest{
		TableName:     args[0],
		Mapping:       domain.ColumnMapping{},
		Push:          flagLinkPush,
		Pull:          flagLinkPull,
		CreateProject: flagLinkCreate,
		Title:         flagLinkTitle,
		LabelConfig:   flagLinkLabelConfig,
	}

	if flagLinkCreate {
		if len(args) > 1 {
			return errors.New("PROJECT_ID cannot be combined with --create")
		}
		if flagLinkTitle == "" || flagLinkLabelConfig == "" {
			return errors.New("--create requires --title and --label-config")
		}
	} else {
		if len(args) < 2 {
			return errors.New("PROJECT_ID is required unless --create is given")
		}
		id, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid project ID %q", args[1])
		}
		req.ProjectID = id
	}

	for _, pair := range flagLinkMap {
		local, remote, ok := strings.Cut(pair, "=")
		if !ok || local == "" || remote == "" {
			return fmt.Errorf("invalid --map value %q, expected local=remote", pair)
		}
		req.Mapping[local] = remote
	}

	link, err := syncer.Link(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("link failed: %w", err)
	}

	cmd.Printf("Linked table %q to project %d (link %s).\n", link.TableName, link.ProjectID, link.ID)
	return nil
}

func runLinks(cmd *cobra.Command, _ []string) error {
	if syncer == nil {
		return errors.New("sync service not configured")
	}

	links, err := syncer.Links(cmd.Context())
	if err != nil {
		return fmt.Errorf("list links: %w", err)
	}
	if len(links) == 0 {
		cmd.Println("No links configured.")
		return nil
	}
	for _, l := range links {
		dirs := make([]string, 0, 2)
		if l.Push {
			dirs = append(dirs, "push")
		}
		if l.Pull {
			dirs = append(dirs, "pull")
		}
		cmd.Printf("%s  table=%s project=%d  [%s]\n", l.ID, l.TableName, l.ProjectID, strings.Join(dirs, ","))
	}
	return nil
}

func runUnlink(cmd *cobra.Command, args []string) error {
	if syncer == nil {
		return errors.New("sync service not configured")
	}

	if err := syncer.Unlink(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("unlink failed: %w", err)
	}
	cmd.Printf("Removed link %s.\n", args[0])
	return nil
}
