// Package services holds the portal business logic. Controllers call the service
// interfaces; services talk to storage only through the repository interfaces.
package services

import (
	"context"
	"time"

	"github.com/yigit/uniportal/internal/app/models"
	"github.com/yigit/uniportal/internal/app/repositories"
	"github.com/yigit/uniportal/internal/pkg/helpers"
)

// timeNow is replaced in tests
var timeNow = func() time.Time { return time.Now().UTC() }

// pageBounds converts a page query to repository offset and limit
func pageBounds(page, size int) (uint64, int) {
	return helpers.CalculateOffsetLimit(page, size)
}

// courseCache memoizes course lookups while building a response
type courseCache struct {
	repo  repositories.ICourseRepository
	items map[int64]*models.Course
}

func newCourseCache(repo repositories.ICourseRepository) *courseCache {
	return &courseCache{repo: repo, items: make(map[int64]*models.Course)}
}

func (c *courseCache) get(ctx context.Context, id int64) (*models.Course, error) {
	if course, ok := c.items[id]; ok {
		return course, nil
	}
	course, err := c.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.items[id] = course
	return course, nil
}
