package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/huangsam/douremember/core"
	"github.com/huangsam/douremember/internal/objstore"
	"github.com/huangsam/douremember/internal/outwriter"
	"github.com/spf13/cobra"
)

// imagesCmd groups the stimulus image catalogue commands.
var imagesCmd = &cobra.Command{
	Use:               "images",
	Short:             "Manage the care group's stimulus images.",
	PersistentPreRunE: sharedSetupWrapper,
}

var imagesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the images of the care group.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		svc, groupID, err := imageSetup(cmd)
		if err != nil {
			return err
		}
		images, err := svc.List(rootCtx, groupID)
		if err != nil {
			return err
		}
		return outwriter.NewOutWriter().WriteImages(images, cfg)
	},
}

var imagesAddCmd = &cobra.Command{
	Use:   "add <file>",
	Short: "Upload an image with its reference description.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, groupID, err := imageSetup(cmd)
		if err != nil {
			return err
		}
		upload, err := readUpload(args[0])
		if err != nil {
			return err
		}
		description, _ := cmd.Flags().GetString("description")
		img, err := svc.Create(rootCtx, groupID, description, upload)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "💾 Added image %s (%s)\n", img.ID, core.FormatFileSize(int64(len(upload.Data))))
		return nil
	},
}

var imagesReplaceCmd = &cobra.Command{
	Use:   "replace <image-id>",
	Short: "Replace the binary or the description of an image.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := imageSetup(cmd)
		if err != nil {
			return err
		}
		description, _ := cmd.Flags().GetString("description")
		file, _ := cmd.Flags().GetString("file")
		if description == "" && file == "" {
			return fmt.Errorf("nothing to replace: pass --description or --file")
		}

		var upload *core.ImageUpload
		if file != "" {
			up, err := readUpload(file)
			if err != nil {
				return err
			}
			upload = &up
		}
		img, err := svc.Replace(rootCtx, args[0], description, upload)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "💾 Updated image %s\n", img.ID)
		return nil
	},
}

var imagesDeleteCmd = &cobra.Command{
	Use:   "delete <image-id>",
	Short: "Delete an image and its stored binary.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := imageSetup(cmd)
		if err != nil {
			return err
		}
		if err := svc.Delete(rootCtx, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "🗑️  Deleted image %s\n", args[0])
		return nil
	},
}

// imageSetup builds the image service and resolves the target group from
// --group or the acting user's care group.
func imageSetup(cmd *cobra.Command) (*core.ImageService, string, error) {
	store, err := dataStore()
	if err != nil {
		return nil, "", err
	}
	storage, err := objstore.New(cfg)
	if err != nil {
		return nil, "", fmt.Errorf("failed to initialize image storage: %w", err)
	}

	groupID, _ := cmd.Flags().GetString("group")
	if groupID == "" {
		if err := requireUser(); err != nil {
			return nil, "", err
		}
		group, err := store.FindGroupForUser(rootCtx, cfg.UserID)
		if err != nil {
			return nil, "", fmt.Errorf("failed to resolve care group: %w", err)
		}
		if group == nil {
			return nil, "", core.ErrNoGroup
		}
		groupID = group.ID
	}
	return core.NewImageService(store, storage), groupID, nil
}

func readUpload(path string) (core.ImageUpload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return core.ImageUpload{}, fmt.Errorf("failed to read image file: %w", err)
	}
	return core.ImageUpload{Filename: filepath.Base(path), Data: data}, nil
}
