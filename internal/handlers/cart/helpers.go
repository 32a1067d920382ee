package cart

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/teewear/shop/internal/mykafka"
)

// currentUserID reads the user id placed in the context by the auth
// middleware.
func currentUserID(c echo.Context) (uint, error) {
	id, ok := c.Get("userID").(uint)
	if !ok {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}
	return id, nil
}

func publishEvent(c echo.Context, p *mykafka.Producer, topic, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := p.PublishEvent(ctx, topic, key, event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}
