// Package cli implements the interactive RealHome command-line client.
package cli

import (
	"bufio"
	"context"
	"os"

	"github.com/vpetrenko/realhome/internal/client/api"
	"github.com/vpetrenko/realhome/internal/client/config"
	"github.com/vpetrenko/realhome/internal/client/uploader"
)

type App struct {
	config   *config.Config
	api      *api.Client
	uploader *uploader.Uploader
	userName string
	reader   *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {
	apiClient, err := api.NewClient(c.ServerBaseURL)
	if err != nil {
		return nil, err
	}

	a := &App{config: c, api: apiClient, reader: bufio.NewReader(os.Stdin)}
	a.uploader = uploader.NewUploader(apiClient, apiClient.HTTPClient(), a.reportProgress)
	return a, nil
}

func (a *App) Run(ctx context.Context) {
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.userName != ""
}

func (a *App) reportProgress(index int, fraction float64) {
	if fraction >= 1 {
		printlnFn("Uploaded image", index+1)
	}
}
