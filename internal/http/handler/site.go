package handler

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"portfolio/internal/content"
	"portfolio/internal/http/response"
	"portfolio/internal/model"
	"portfolio/internal/repository"
)

const streamBuffer = 16

var errSlowClient = errors.New("stream client too slow")

// publicCollections are the collections pushed on the site stream.
var publicCollections = []repository.Collection{repository.Profile, repository.Projects, repository.Skills}

// SiteView is the read side of the content sync service.
type SiteView interface {
	State() content.State
	ProjectsByCategory(category string) []model.Project
	Listen(l content.Listener) int64
	Unlisten(id int64)
}

// SiteProfile returns the profile of the live view.
func SiteProfile(view SiteView) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return response.Data(c, fiber.StatusOK, view.State().Profile)
	}
}

// SiteSkills returns the skills of the live view.
func SiteSkills(view SiteView) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return response.List(c, view.State().Skills)
	}
}

// SiteProjects returns published projects, optionally narrowed by
// ?category= and ?featured=true.
func SiteProjects(view SiteView) fiber.Handler {
	return func(c *fiber.Ctx) error {
		category := c.Query("category", content.All)
		list := view.ProjectsByCategory(category)
		if c.QueryBool("featured") {
			list = content.Featured(list)
		}
		n := len(list)
		return c.JSON(response.Envelope{Success: true, Data: list, Count: &n, Category: category})
	}
}

// SiteStream pushes the public collections as Server-Sent Events: one event
// per collection on connect, then one after every change. The stream ends
// when the client goes away, falls behind, or done is closed.
func SiteStream(view SiteView, done <-chan struct{}, heartbeat time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, "text/event-stream")
		c.Set(fiber.HeaderCacheControl, "no-cache")
		c.Set(fiber.HeaderConnection, "keep-alive")
		c.Set("X-Accel-Buffering", "no")

		events := make(chan content.Event, streamBuffer)
		gone := make(chan struct{})
		var once sync.Once
		id := view.Listen(content.ListenerFunc(func(e content.Event) error {
			select {
			case events <- e:
				return nil
			default:
				once.Do(func() { close(gone) })
				return errSlowClient
			}
		}))

		c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
			defer view.Unlisten(id)

			for _, col := range publicCollections {
				if err := writeEvent(w, view, content.Event{Collection: col}); err != nil {
					return
				}
			}

			ticker := time.NewTicker(heartbeat)
			defer ticker.Stop()
			for {
				select {
				case e := <-events:
					if !slices.Contains(publicCollections, e.Collection) {
						continue
					}
					if err := writeEvent(w, view, e); err != nil {
						return
					}
				case <-ticker.C:
					if _, err := w.WriteString(": ping\n\n"); err != nil {
						return
					}
					if err := w.Flush(); err != nil {
						return
					}
				case <-gone:
					return
				case <-done:
					return
				}
			}
		}))
		return nil
	}
}

// sitePayload is what the public site sees of collection c.
func sitePayload(view SiteView, c repository.Collection) any {
	switch c {
	case repository.Profile:
		return view.State().Profile
	case repository.Projects:
		return view.ProjectsByCategory(content.All)
	default:
		return view.State().Skills
	}
}

func writeEvent(w *bufio.Writer, view SiteView, e content.Event) error {
	data, err := json.Marshal(sitePayload(view, e.Collection))
	if err != nil {
		return err
	}
	if e.Version > 0 {
		fmt.Fprintf(w, "id: %d\n", e.Version)
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", e.Collection, data)
	return w.Flush()
}
