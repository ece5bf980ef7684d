package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pharma-stock-api/internal/application/dto"
)

// pageFromQuery lee limit/offset; el caso de uso aplica los límites.
func pageFromQuery(c *fiber.Ctx) dto.PageRequest {
	return dto.PageRequest{Limit: c.QueryInt("limit", 0), Offset: c.QueryInt("offset", 0)}
}

// dateQuery parsea un parámetro YYYY-MM-DD; vacío devuelve nil.
func dateQuery(c *fiber.Ctx, name string) (*time.Time, error) {
	v := c.Query(name)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(dto.DateLayout, v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// dateRange lee from/to. to incluye el día completo.
func dateRange(c *fiber.Ctx, fromName, toName string) (*time.Time, *time.Time, error) {
	from, err := dateQuery(c, fromName)
	if err != nil {
		return nil, nil, err
	}
	to, err := dateQuery(c, toName)
	if err != nil {
		return nil, nil, err
	}
	if to != nil {
		end := to.Add(24*time.Hour - time.Nanosecond)
		to = &end
	}
	return from, to, nil
}
