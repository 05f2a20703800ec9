package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"

	"ballotbox/internal/errors"
	"ballotbox/internal/handler"
	"ballotbox/internal/model"
	"ballotbox/internal/repository"
	"ballotbox/internal/service"
)

const defaultSeedFile = "seed.json"

// SeedUser is one account in the seed file.
type SeedUser struct {
	FullName string                      `json:"full_name"`
	Email    string                      `json:"email"`
	Username string                      `json:"username"`
	Password string                      `json:"password"`
	Role     model.Role                  `json:"role"`
	Details  *handler.RoleDetailsRequest `json:"details"`
}

// SeedResult counts what a seed run did.
type SeedResult struct {
	Created  int
	Existing int
	Skipped  int
}

// loadSeedRecords reads seed users from a local file or an http(s) URL.
func loadSeedRecords(source string) ([]SeedUser, error) {
	var body []byte
	var err error
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		body, err = fetch(source)
	} else {
		body, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, err
	}
	return parseSeedRecords(body)
}

func parseSeedRecords(body []byte) ([]SeedUser, error) {
	var records []SeedUser
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return records, nil
}

func fetch(url string) ([]byte, error) {
	resp, err := http.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch seed file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("seed source returned status code: %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// seedUsers creates the accounts that do not exist yet. Existing emails are
// left untouched and invalid records are skipped.
func seedUsers(ctx context.Context, repo repository.UserRepository, records []SeedUser) (SeedResult, error) {
	var result SeedResult
	for _, rec := range records {
		if rec.Email == "" || rec.Username == "" || len(rec.Password) < 6 || !rec.Role.Valid() {
			log.Printf("Skipping invalid seed record: %q", rec.Email)
			result.Skipped++
			continue
		}

		_, err := repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(rec.Email)))
		if err == nil {
			result.Existing++
			continue
		}
		if !errors.IsNotFound(err) {
			return result, fmt.Errorf("error checking user %s: %w", rec.Email, err)
		}

		user, err := service.NewUser(service.RegisterInput{
			FullName: rec.FullName,
			Email:    rec.Email,
			Username: rec.Username,
			Password: rec.Password,
			Role:     rec.Role,
			Details:  rec.Details.ToDetails(rec.Role),
		})
		if err != nil {
			log.Printf("Skipping seed record %q: %v", rec.Email, err)
			result.Skipped++
			continue
		}

		if err := repo.Create(ctx, user); err != nil {
			if errors.IsDuplicateKey(err) {
				result.Existing++
				continue
			}
			return result, fmt.Errorf("error creating user %s: %w", rec.Email, err)
		}
		result.Created++
	}
	return result, nil
}
