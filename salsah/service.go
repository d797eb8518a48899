package salsah

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/boltdb/bolt"
	log "github.com/sirupsen/logrus"
)

const ontologiesBucket = "ontologies"

type Service interface {
	IsDataLoaded() bool
	GetCount() (int, error)
	GetAllOntologies() (*io.PipeReader, error)
	GetOntologyNames() (*io.PipeReader, error)
	GetOntology(shortname string) (Document, bool, error)
	Reload() error
}

type purger interface {
	Purge()
}

type ServiceImpl struct {
	sync.RWMutex
	transformer   *Transformer
	cache         purger
	projectIDs    []ID
	cacheFileName string
	db            *bolt.DB
	dataLoaded    bool
	// serialises loads so a reload never drops the bucket under another one
	loadMu sync.Mutex
}

// NewService starts loading the configured projects in the background.
// cache, when not nil, is purged before every reload.
func NewService(transformer *Transformer, cache purger, projectIDs []ID, cacheFileName string) *ServiceImpl {
	svc := &ServiceImpl{
		transformer:   transformer,
		cache:         cache,
		projectIDs:    projectIDs,
		cacheFileName: cacheFileName,
	}
	go func(service *ServiceImpl) {
		if err := service.loadDB(); err != nil {
			log.Errorf("Error while loading ontologies: [%v]", err)
		}
	}(svc)
	return svc
}

func (s *ServiceImpl) IsDataLoaded() bool {
	s.RLock()
	defer s.RUnlock()
	return s.dataLoaded
}

func (s *ServiceImpl) setDataLoaded(val bool) {
	s.Lock()
	s.dataLoaded = val
	s.Unlock()
}

func (s *ServiceImpl) openDB() error {
	s.Lock()
	defer s.Unlock()
	if s.db == nil {
		log.Infof("Opening database '%v'.", s.cacheFileName)
		var err error
		if s.db, err = bolt.Open(s.cacheFileName, 0600, &bolt.Options{Timeout: 1 * time.Second}); err != nil {
			log.Errorf("ERROR opening cache file for init: %v.", err)
			return err
		}
	}
	return nil
}

func (s *ServiceImpl) loadDB() error {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	s.setDataLoaded(false)
	log.Info("Loading ontologies...")

	if err := s.openDB(); err != nil {
		return err
	}
	if err := s.createCacheBucket(); err != nil {
		return err
	}
	if s.cache != nil {
		s.cache.Purge()
	}

	err := s.transformer.TransformProjects(s.projectIDs, s.storeOntology)
	if err != nil {
		return err
	}

	log.Info("Finished loading ontologies.")
	s.setDataLoaded(true)
	return nil
}

func (s *ServiceImpl) storeOntology(doc *Document) error {
	marshalled, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(ontologiesBucket))
		if bucket == nil {
			return fmt.Errorf("Cache bucket [%v] not found!", ontologiesBucket)
		}
		return bucket.Put([]byte(FileBaseName(doc)), marshalled)
	})
}

func (s *ServiceImpl) createCacheBucket() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket([]byte(ontologiesBucket)) != nil {
			log.Infof("Deleting bucket '%v'.", ontologiesBucket)
			if err := tx.DeleteBucket([]byte(ontologiesBucket)); err != nil {
				log.Warnf("Cache bucket [%v] could not be deleted.", ontologiesBucket)
			}
		}
		log.Infof("Creating bucket '%s'.", ontologiesBucket)
		_, err := tx.CreateBucket([]byte(ontologiesBucket))
		return err
	})
}

func (s *ServiceImpl) Reload() error {
	return s.loadDB()
}

func (s *ServiceImpl) GetCount() (int, error) {
	if !s.IsDataLoaded() {
		return 0, fmt.Errorf("Ontologies not loaded")
	}
	var count int
	err := s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(ontologiesBucket))
		if bucket == nil {
			return fmt.Errorf("Bucket %v not found!", ontologiesBucket)
		}
		count = bucket.Stats().KeyN
		return nil
	})
	return count, err
}

func (s *ServiceImpl) GetAllOntologies() (*io.PipeReader, error) {
	pv, pw := io.Pipe()
	go func() {
		err := s.db.View(func(tx *bolt.Tx) error {
			b := tx.Bucket([]byte(ontologiesBucket))
			if b == nil {
				return nil
			}
			c := b.Cursor()
			for k, v := c.First(); k != nil; k, v = c.Next() {
				if _, err := pw.Write(v); err != nil {
					return err
				}
				io.WriteString(pw, "\n")
			}
			return nil
		})
		pw.CloseWithError(err)
	}()
	return pv, nil
}

func (s *ServiceImpl) GetOntologyNames() (*io.PipeReader, error) {
	pv, pw := io.Pipe()
	go func() {
		err := s.db.View(func(tx *bolt.Tx) error {
			b := tx.Bucket([]byte(ontologiesBucket))
			if b == nil {
				return nil
			}
			c := b.Cursor()
			encoder := json.NewEncoder(pw)
			for k, _ := c.First(); k != nil; k, _ = c.Next() {
				if err := encoder.Encode(OntologyName{Shortname: string(k)}); err != nil {
					return err
				}
			}
			return nil
		})
		pw.CloseWithError(err)
	}()
	return pv, nil
}

func (s *ServiceImpl) GetOntology(shortname string) (Document, bool, error) {
	var cachedValue []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(ontologiesBucket))
		if bucket == nil {
			return fmt.Errorf("Bucket %v not found!", ontologiesBucket)
		}
		if v := bucket.Get([]byte(shortname)); v != nil {
			cachedValue = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		log.Errorf("ERROR reading from cache file for [%v]: %v", shortname, err)
		return Document{}, false, err
	}
	if len(cachedValue) == 0 {
		log.Infof("INFO No cached ontology for [%v].", shortname)
		return Document{}, false, nil
	}

	var doc Document
	if err := json.Unmarshal(cachedValue, &doc); err != nil {
		log.Errorf("ERROR unmarshalling cached value for [%v]: %v.", shortname, err)
		return Document{}, true, err
	}
	return doc, true, nil
}
