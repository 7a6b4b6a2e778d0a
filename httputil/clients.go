package httputil

import (
	"net/http"
	"time"
)

type Clients struct {
	API     *http.Client // PMS SOAP/OData endpoints
	Reports *http.Client // report export downloads, longer timeout
}

func NewClients() *Clients {
	return &Clients{
		API: &http.Client{Timeout: 30 * time.Second},
		Reports: &http.Client{
			Timeout: 2 * time.Minute,
		},
	}
}
