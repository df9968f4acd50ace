package httpapi

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/dailyweather/internal/controller"
	"github.com/i474232898/dailyweather/internal/permission"
	"github.com/i474232898/dailyweather/internal/ui"
	"github.com/i474232898/dailyweather/internal/weather"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, ctrl *controller.Controller) {
	v1 := app.Group("/api/v1")

	v1.Get("/locations", func(c *fiber.Ctx) error {
		list, page := ctrl.Locations()
		return c.JSON(fiber.Map{
			"locations":        list,
			"currentPageIndex": page,
		})
	})

	v1.Post("/locations", func(c *fiber.Ctx) error {
		var req addLocationRequest
		if err := bindJSON(c, &req); err != nil {
			return err
		}

		if (req.Latitude == nil) != (req.Longitude == nil) {
			return fiber.NewError(fiber.StatusBadRequest, "latitude and longitude must be given together")
		}
		var coord *weather.Coordinate
		if req.Latitude != nil {
			coord = &weather.Coordinate{Latitude: *req.Latitude, Longitude: *req.Longitude}
		}
		st := ctrl.Add(c.UserContext(), req.Name, coord)
		return c.Status(fiber.StatusCreated).JSON(st)
	})

	v1.Delete("/locations/:index", func(c *fiber.Ctx) error {
		index, err := strconv.Atoi(c.Params("index"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "index must be an integer")
		}
		removed, err := ctrl.Remove(c.UserContext(), index)
		if err != nil {
			return err
		}
		return c.JSON(removed)
	})

	v1.Put("/locations/page", func(c *fiber.Ctx) error {
		var req pageRequest
		if err := bindJSON(c, &req); err != nil {
			return err
		}
		if err := ctrl.SetPage(*req.Index); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"currentPageIndex": *req.Index})
	})

	v1.Get("/locations/:id/view", func(c *fiber.Ctx) error {
		view, ok := ctrl.View(c.Params("id"))
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "no tracked location with that id")
		}
		return c.JSON(view)
	})

	v1.Get("/current", func(c *fiber.Ctx) error {
		return c.JSON(ctrl.Current())
	})

	registerDeviceRoutes(v1, ctrl)
	registerSearchRoutes(v1, ctrl)

	v1.Post("/actions", func(c *fiber.Ctx) error {
		var req actionRequest
		if err := bindJSON(c, &req); err != nil {
			return err
		}
		if err := ctrl.HandleAction(c.UserContext(), ui.Action{Type: req.Type, Payload: req.Payload}); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusAccepted)
	})
}

func registerDeviceRoutes(v1 fiber.Router, ctrl *controller.Controller) {
	device := v1.Group("/device")

	device.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": ctrl.Device(),
			"state":  stateView(ctrl.DeviceState()),
		})
	})

	device.Post("/authorization", func(c *fiber.Ctx) error {
		var req authorizationRequest
		if err := bindJSON(c, &req); err != nil {
			return err
		}
		auth, err := permission.ParseAuthorizationState(req.State)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.JSON(stateView(ctrl.AuthorizationChanged(auth)))
	})

	device.Post("/position", func(c *fiber.Ctx) error {
		var req positionRequest
		if err := bindJSON(c, &req); err != nil {
			return err
		}
		st := ctrl.PositionReceived(weather.Coordinate{Latitude: *req.Latitude, Longitude: *req.Longitude})
		return c.JSON(stateView(st))
	})

	device.Post("/error", func(c *fiber.Ctx) error {
		var req errorRequest
		if err := bindJSON(c, &req); err != nil {
			return err
		}
		return c.JSON(stateView(ctrl.LocationFailed(errors.New(req.Message))))
	})
}

func registerSearchRoutes(v1 fiber.Router, ctrl *controller.Controller) {
	session := ctrl.Search()

	v1.Post("/search", func(c *fiber.Ctx) error {
		var req searchRequest
		if err := bindJSON(c, &req); err != nil {
			return err
		}
		session.Query(req.Q)
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"query": req.Q})
	})

	v1.Get("/search/candidates", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"query":      session.LastQuery(),
			"candidates": session.Candidates(),
		})
	})

	v1.Post("/search/select", func(c *fiber.Ctx) error {
		var req selectRequest
		if err := bindJSON(c, &req); err != nil {
			return err
		}
		preview, err := session.Select(c.UserContext(), req.Handle)
		if err != nil {
			return err
		}
		return c.JSON(preview)
	})

	v1.Post("/search/confirm", func(c *fiber.Ctx) error {
		st, err := session.Confirm(c.UserContext())
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(st)
	})

	v1.Delete("/search/preview", func(c *fiber.Ctx) error {
		session.Dismiss()
		return c.SendStatus(fiber.StatusNoContent)
	})
}

func bindJSON(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(dst); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}

func stateView(s permission.State) fiber.Map {
	return fiber.Map{
		"authorization": s.Authorization.String(),
		"phase":         s.Phase.String(),
	}
}
