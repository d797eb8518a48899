package salsah

import (
	lru "github.com/hashicorp/golang-lru/v2"
	log "github.com/sirupsen/logrus"
)

// CachingRepository memoises resource type info. Resource types are read once
// for their cardinalities, once for their properties and again whenever a link
// property points at them.
type CachingRepository struct {
	Repository
	resourceTypes *lru.Cache[ID, *ResourceTypeInfo]
}

func NewCachingRepository(repo Repository, size int) (*CachingRepository, error) {
	cache, err := lru.New[ID, *ResourceTypeInfo](size)
	if err != nil {
		return nil, err
	}
	return &CachingRepository{Repository: repo, resourceTypes: cache}, nil
}

func (c *CachingRepository) GetResourceTypeInfo(id ID) (*ResourceTypeInfo, error) {
	if info, ok := c.resourceTypes.Get(id); ok {
		return info, nil
	}
	info, err := c.Repository.GetResourceTypeInfo(id)
	if err != nil {
		return nil, err
	}
	c.resourceTypes.Add(id, info)
	return info, nil
}

// Purge drops every cached entry.
func (c *CachingRepository) Purge() {
	log.Debugf("Purging %d cached resource types", c.resourceTypes.Len())
	c.resourceTypes.Purge()
}
