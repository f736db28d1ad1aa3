package services

import (
	"bytes"
	"context"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/mygigs/mygigs-backend/internal/config"
)

// mirrorTimeout bounds the identity-provider call so a slow provider cannot
// delay callback acknowledgement.
const mirrorTimeout = 5 * time.Second

// ClerkService mirrors role changes to the identity provider. The mirror is
// fire and forget: it runs off the caller's goroutine with its own timeout,
// and failures only reach the log.
type ClerkService struct {
	apiURL    string
	secretKey string
	client    *http.Client
}

func NewClerkService(cfg *config.Config) *ClerkService {
	return &ClerkService{
		apiURL:    cfg.ClerkAPIURL,
		secretKey: cfg.ClerkSecretKey,
		client:    &http.Client{Timeout: mirrorTimeout},
	}
}

// MirrorFreelancerRole patches public_metadata.role on the provider's user
// resource. Never blocks the caller.
func (s *ClerkService) MirrorFreelancerRole(clerkID string) {
	if s.secretKey == "" {
		log.Printf("clerk mirror: no secret key configured, skipping role mirror for %s", clerkID)
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
		defer cancel()

		body := []byte(`{"public_metadata":{"role":"freelancer"}}`)
		req, err := http.NewRequestWithContext(ctx, "PATCH", s.apiURL+"/v1/users/"+clerkID+"/metadata", bytes.NewBuffer(body))
		if err != nil {
			log.Printf("clerk mirror: failed to build request for %s: %v", clerkID, err)
			return
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+s.secretKey)

		resp, err := s.client.Do(req)
		if err != nil {
			log.Printf("clerk mirror: role mirror for %s failed: %v", clerkID, err)
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			respBody, _ := io.ReadAll(resp.Body)
			log.Printf("clerk mirror: role mirror for %s returned status %d: %s", clerkID, resp.StatusCode, string(respBody))
			return
		}
		log.Printf("clerk mirror: role mirrored for %s", clerkID)
	}()
}
