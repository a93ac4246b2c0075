// Package feed pushes newly created articles to socket.io clients.
//
// Every client joins the "articles" room on connect. Emitting "subscribe"
// with a category name additionally joins "category:<name>"; "unsubscribe"
// leaves it. Each created article is sent once per socket as
// "article-created".
package feed

import (
	"net/http"

	"news-api/core"

	"github.com/sirupsen/logrus"
	"github.com/zishang520/engine.io/v2/types"
	socketio "github.com/zishang520/socket.io/v2/socket"
)

const (
	allRoom      = "articles"
	createdEvent = "article-created"
)

type Hub struct {
	io *socketio.Server
}

func NewHub() *Hub {
	opts := socketio.DefaultServerOptions()
	opts.SetMaxHttpBufferSize(1000000)
	opts.SetPath("/socket.io")
	opts.SetCors(&types.Cors{
		Origin:      "*",
		Credentials: true,
	})
	ioo := socketio.NewServer(nil, opts)

	ioo.On("connection", func(clients ...any) {
		socket := clients[0].(*socketio.Socket)
		me := socket.Id()
		log := logrus.WithField("socket_id", me)
		socket.Join(socketio.Room(allRoom))
		log.Debug("Feed client connected")

		socket.On("subscribe", func(datas ...any) {
			if category, ok := categoryArg(datas); ok {
				socket.Join(CategoryRoom(category))
				log.WithField("category", category).Debug("Feed client subscribed")
			}
		})
		socket.On("unsubscribe", func(datas ...any) {
			if category, ok := categoryArg(datas); ok {
				socket.Leave(CategoryRoom(category))
			}
		})
		socket.On("disconnect", func(datas ...any) {
			socket.RemoveAllListeners("")
			log.Debug("Feed client disconnected")
		})
	})

	return &Hub{io: ioo}
}

// CategoryRoom is the room of clients following one category.
func CategoryRoom(category string) socketio.Room {
	return socketio.Room("category:" + category)
}

func categoryArg(datas []any) (string, bool) {
	if len(datas) == 0 {
		return "", false
	}
	category, ok := datas[0].(string)
	return category, ok && category != ""
}

// Notice is the payload sent for a created article.
func Notice(id string, article *core.Article) map[string]any {
	return map[string]any{
		"id":       id,
		"title":    article.Title,
		"category": article.Category,
		"author":   article.Author,
	}
}

// ArticleCreated broadcasts the article. Delivery is best-effort.
func (h *Hub) ArticleCreated(id string, article *core.Article) {
	h.io.To(socketio.Room(allRoom), CategoryRoom(article.Category)).Emit(createdEvent, Notice(id, article))
}

func (h *Hub) Handler() http.Handler {
	return h.io.ServeHandler(nil)
}

func (h *Hub) Close() {
	h.io.Close(nil)
}
