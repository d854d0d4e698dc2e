// CLI tool to create a user with a default profile and an API token.
// Blank answers keep the profile defaults.
// Usage: go run ./cmd/create-user (store settings from config, .env or env)
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"lg/calorix-api/internal/config"
	"lg/calorix-api/internal/nutrition"
	"lg/calorix-api/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	s, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DBURL, cfg.Store.SQLitePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to open %s store: %v\n", cfg.Store.Driver, err)
		os.Exit(1)
	}
	defer s.Close()

	reader := bufio.NewReader(os.Stdin)
	patch, err := readPatch(reader)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid input: %v\n", err)
		os.Exit(1)
	}

	profile, err := nutrition.DefaultProfile().Apply(patch)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid profile: %v\n", err)
		os.Exit(1)
	}

	uid := uuid.New().String()
	if err := nutrition.NewRepository(s).Save(ctx, uid, profile); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating profile: %v\n", err)
		os.Exit(1)
	}
	token, err := store.IssueToken(ctx, s, uid)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error issuing token: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nUser created successfully!\n")
	fmt.Printf("  ID:         %s\n", uid)
	fmt.Printf("  Name:       %s\n", profile.Name)
	fmt.Printf("  Calories:   %d kcal/day\n", profile.Goals.Calories)
	fmt.Printf("  Auth Token: %s\n", token)
}

// readPatch prompts for the profile fields. Blank answers stay nil.
func readPatch(reader *bufio.Reader) (nutrition.ProfilePatch, error) {
	var pp nutrition.ProfilePatch
	ask := func(label string) string {
		fmt.Print(label)
		line, _ := reader.ReadString('\n')
		return strings.TrimSpace(line)
	}

	if v := ask("Name: "); v != "" {
		pp.Name = &v
	}
	if v := ask("Sex (male/female/other): "); v != "" {
		sex := nutrition.Sex(v)
		pp.Sex = &sex
	}
	if v := ask("Age: "); v != "" {
		age, err := strconv.Atoi(v)
		if err != nil {
			return pp, fmt.Errorf("age %q is not a number", v)
		}
		pp.Age = &age
	}
	for _, f := range []struct {
		label string
		dst   **float64
	}{{"Weight (kg): ", &pp.WeightKG}, {"Height (cm): ", &pp.HeightCM}} {
		v := ask(f.label)
		if v == "" {
			continue
		}
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return pp, fmt.Errorf("%q is not a number", v)
		}
		*f.dst = &n
	}
	if v := ask("Activity (sedentary/light/moderate/active/very_active): "); v != "" {
		m, ok := nutrition.ActivityMultipliers[v]
		if !ok {
			return pp, fmt.Errorf("unknown activity level %q", v)
		}
		pp.ActivityLevel = &m
	}
	if v := ask("Goal (lose/maintain/gain): "); v != "" {
		goal := nutrition.GoalType(v)
		pp.Goal = &goal
	}
	return pp, nil
}
