package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/huangsam/douremember/schema"
	"github.com/spf13/cobra"
)

var groupsCmd = &cobra.Command{
	Use:               "groups",
	Short:             "Manage care groups (doctor, caregiver and patient).",
	PersistentPreRunE: sharedSetupWrapper,
}

var groupsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a care group.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := dataStore()
		if err != nil {
			return err
		}
		group := schema.Group{}
		group.ID, _ = cmd.Flags().GetString("id")
		group.DoctorID, _ = cmd.Flags().GetString("doctor")
		group.CaregiverID, _ = cmd.Flags().GetString("caregiver")
		group.PatientID, _ = cmd.Flags().GetString("patient")
		if group.PatientID == "" {
			return fmt.Errorf("--patient is required")
		}
		if group.ID == "" {
			group.ID = uuid.NewString()
		}

		saved, err := store.InsertGroup(rootCtx, group)
		if err != nil {
			return fmt.Errorf("failed to create group: %w", err)
		}
		fmt.Fprintf(os.Stderr, "💾 Created group %s\n", saved.ID)
		return nil
	},
}

var profilesCmd = &cobra.Command{
	Use:               "profiles",
	Short:             "Manage user profiles.",
	PersistentPreRunE: sharedSetupWrapper,
}

var profilesAddCmd = &cobra.Command{
	Use:   "add <profile-id>",
	Short: "Create or update a profile.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := dataStore()
		if err != nil {
			return err
		}
		name, _ := cmd.Flags().GetString("name")
		role, _ := cmd.Flags().GetString("role")
		profile := schema.Profile{
			ID:   args[0],
			Name: strings.TrimSpace(name),
			Role: schema.Role(strings.ToLower(role)),
		}
		if _, ok := schema.ValidRoles[profile.Role]; !ok {
			return fmt.Errorf("invalid role '%s'", role)
		}
		if err := store.UpsertProfile(rootCtx, profile); err != nil {
			return fmt.Errorf("failed to save profile: %w", err)
		}
		fmt.Fprintf(os.Stderr, "💾 Saved profile %s\n", profile.ID)
		return nil
	},
}
