package helpers

import (
	"github.com/elastic/go-elasticsearch/v8"
)

// NewESClient creates an Elasticsearch client, or nil when no addresses
// are configured so callers can treat search as an optional collaborator.
func NewESClient(addrs []string, user, pass string) (*elasticsearch.Client, error) {
	if len(addrs) == 0 {
		return nil, nil
	}
	cfg := elasticsearch.Config{
		Addresses: addrs,
		Username:  user,
		Password:  pass,
	}
	return elasticsearch.NewClient(cfg)
}
