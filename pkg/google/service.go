package google

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/klokku/ledger/internal/config"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

var ErrNoCredentials = errors.New("google credentials file or api key required")

// NewCalendarService creates a read only Calendar API client. A service account credentials
// file takes precedence over an API key, which only reaches public calendars.
func NewCalendarService(ctx context.Context, cfg config.Google) (*calendar.Service, error) {
	var opts []option.ClientOption
	switch {
	case cfg.CredentialsFile != "":
		data, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("unable to read google credentials: %w", err)
		}
		creds, err := google.CredentialsFromJSON(ctx, data, calendar.CalendarReadonlyScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse google credentials: %w", err)
		}
		opts = append(opts, option.WithCredentials(creds))
		log.Debugf("using google credentials of project %s", creds.ProjectID)
	case cfg.ApiKey != "":
		opts = append(opts, option.WithAPIKey(cfg.ApiKey))
	default:
		return nil, ErrNoCredentials
	}

	service, err := calendar.NewService(ctx, opts...)
	if err != nil {
		err := fmt.Errorf("unable to retrieve Calendar client: %v", err)
		log.Error(err)
		return nil, err
	}
	return service, nil
}
