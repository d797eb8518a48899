package salsah

import (
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	metrics "github.com/rcrowley/go-metrics"
	log "github.com/sirupsen/logrus"
)

type httpClient interface {
	Do(req *http.Request) (resp *http.Response, err error)
}

// Repository reads the schema description of a SALSAH instance.
type Repository interface {
	GetProjects() ([]Project, error)
	GetVocabularies() ([]Vocabulary, error)
	GetProjectInfo(vocabulary string) (*ProjectInfo, error)
	GetSelections(vocabulary string) ([]Selection, error)
	GetSelectionNodes(id ID) ([]SelectionNode, error)
	GetHLists(vocabulary string) ([]HList, error)
	GetHListNodes(id ID) ([]HListNode, error)
	GetResourceTypes(vocabulary string) ([]ResourceTypeRef, error)
	GetResourceTypeInfo(id ID) (*ResourceTypeInfo, error)
	GetAllSelections() ([]Selection, error)
	GetAllHLists() ([]HList, error)
}

type salsahRepository struct {
	httpClient httpClient
	baseURL    string
}

func NewSalsahRepository(client httpClient, baseURL string) Repository {
	return &salsahRepository{
		httpClient: client,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

func (r *salsahRepository) GetProjects() ([]Project, error) {
	var resp projectsResponse
	if err := r.getJSON("projects", "/api/projects", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Projects, nil
}

func (r *salsahRepository) GetVocabularies() ([]Vocabulary, error) {
	var resp vocabulariesResponse
	if err := r.getJSON("vocabularies", "/api/vocabularies", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Vocabularies, nil
}

// GetProjectInfo returns nil without error when the API has no project_info
// for the vocabulary.
func (r *salsahRepository) GetProjectInfo(vocabulary string) (*ProjectInfo, error) {
	var resp projectInfoResponse
	if err := r.getJSON("projectinfo", "/api/projects/"+url.PathEscape(vocabulary), allLanguages(), &resp); err != nil {
		return nil, err
	}
	return resp.ProjectInfo, nil
}

func (r *salsahRepository) GetSelections(vocabulary string) ([]Selection, error) {
	var resp selectionsResponse
	if err := r.getJSON("selections", "/api/selections/", vocabularyQuery(vocabulary), &resp); err != nil {
		return nil, err
	}
	return resp.Selections, nil
}

func (r *salsahRepository) GetSelectionNodes(id ID) ([]SelectionNode, error) {
	var resp selectionNodesResponse
	if err := r.getJSON("selection", "/api/selections/"+url.PathEscape(id.String()), allLanguages(), &resp); err != nil {
		return nil, err
	}
	return resp.Selection, nil
}

func (r *salsahRepository) GetHLists(vocabulary string) ([]HList, error) {
	var resp hlistsResponse
	if err := r.getJSON("hlists", "/api/hlists", vocabularyQuery(vocabulary), &resp); err != nil {
		return nil, err
	}
	return resp.HLists, nil
}

func (r *salsahRepository) GetHListNodes(id ID) ([]HListNode, error) {
	var resp hlistNodesResponse
	if err := r.getJSON("hlist", "/api/hlists/"+url.PathEscape(id.String()), allLanguages(), &resp); err != nil {
		return nil, err
	}
	return resp.HList, nil
}

func (r *salsahRepository) GetResourceTypes(vocabulary string) ([]ResourceTypeRef, error) {
	var resp resourceTypesResponse
	if err := r.getJSON("resourcetypes", "/api/resourcetypes/", vocabularyQuery(vocabulary), &resp); err != nil {
		return nil, err
	}
	return resp.ResourceTypes, nil
}

func (r *salsahRepository) GetResourceTypeInfo(id ID) (*ResourceTypeInfo, error) {
	var resp resourceTypeInfoResponse
	if err := r.getJSON("resourcetype", "/api/resourcetypes/"+url.PathEscape(id.String()), allLanguages(), &resp); err != nil {
		return nil, err
	}
	if resp.ResourceTypeInfo == nil {
		return nil, fmt.Errorf("resource type %s has no restype_info", id)
	}
	return resp.ResourceTypeInfo, nil
}

func (r *salsahRepository) GetAllSelections() ([]Selection, error) {
	var resp selectionsResponse
	if err := r.getJSON("selections", "/api/selections/", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Selections, nil
}

func (r *salsahRepository) GetAllHLists() ([]HList, error) {
	var resp hlistsResponse
	if err := r.getJSON("hlists", "/api/hlists/", nil, &resp); err != nil {
		return nil, err
	}
	return resp.HLists, nil
}

func (r *salsahRepository) getJSON(endpoint, path string, query url.Values, v interface{}) error {
	u := r.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	defer metrics.GetOrRegisterTimer("salsah.fetch."+endpoint, metrics.DefaultRegistry).UpdateSince(time.Now())

	body, err := fetch(r.httpClient, u)
	if err != nil {
		return err
	}
	defer body.Close()

	if err := json.NewDecoder(body).Decode(v); err != nil {
		return errors.Wrapf(err, "decoding response of %s", u)
	}
	return nil
}

// fetch issues a GET and returns the body of a 200 response.
func fetch(client httpClient, u string) (io.ReadCloser, error) {
	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "building request for %s", u)
	}
	req.Header.Set("Accept", "application/json")

	log.WithField("url", u).Debug("Fetching from SALSAH")
	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "requesting %s", u)
	}
	if resp.StatusCode != http.StatusOK {
		io.Copy(ioutil.Discard, resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, u)
	}
	return resp.Body, nil
}

func allLanguages() url.Values {
	return url.Values{"lang": []string{"all"}}
}

func vocabularyQuery(vocabulary string) url.Values {
	return url.Values{
		"vocabulary": []string{vocabulary},
		"lang":       []string{"all"},
	}
}
