package mongostore

import (
	"strconv"

	"tboard/internal/service"
)

const (
	boardsCollection = "boards"
	usersCollection  = "users"
)

type boardDoc struct {
	ID         string        `bson:"_id"`
	Name       string        `bson:"name"`
	Image      string        `bson:"image,omitempty"`
	CreatedBy  string        `bson:"createdBy"`
	AssignedTo []string      `bson:"assignedTo"`
	TaskList   []taskListDoc `bson:"taskList"`
	Version    int64         `bson:"version"`
}

type taskListDoc struct {
	Title     string    `bson:"title"`
	CreatedBy string    `bson:"createdBy"`
	Cards     []cardDoc `bson:"cards"`
}

type cardDoc struct {
	Name       string   `bson:"name"`
	CreatedBy  string   `bson:"createdBy"`
	AssignedTo []string `bson:"assignedTo"`
	LabelColor string   `bson:"labelColor,omitempty"`
}

type userDoc struct {
	ID           string `bson:"_id"`
	Name         string `bson:"name"`
	Email        string `bson:"email"`
	Image        string `bson:"image,omitempty"`
	PasswordHash string `bson:"passwordHash,omitempty"`
}

func nonNil(ss []string) []string {
	if ss == nil {
		return []string{}
	}
	return ss
}

func toTaskListDocs(lists []service.TaskList) []taskListDoc {
	docs := make([]taskListDoc, len(lists))
	for i, l := range lists {
		cards := make([]cardDoc, len(l.Cards))
		for j, c := range l.Cards {
			cards[j] = cardDoc{
				Name:       c.Title,
				CreatedBy:  c.CreatedBy,
				AssignedTo: nonNil(c.AssignedTo),
				LabelColor: c.LabelColor,
			}
		}
		docs[i] = taskListDoc{Title: l.Title, CreatedBy: l.CreatedBy, Cards: cards}
	}
	return docs
}

func (d boardDoc) toBoard() service.Board {
	b := service.Board{
		ID:         d.ID,
		Name:       d.Name,
		Image:      d.Image,
		CreatedBy:  d.CreatedBy,
		AssignedTo: d.AssignedTo,
		Version:    strconv.FormatInt(d.Version, 10),
	}
	for _, l := range d.TaskList {
		tl := service.TaskList{Title: l.Title, CreatedBy: l.CreatedBy}
		for _, c := range l.Cards {
			tl.Cards = append(tl.Cards, service.Card{
				Title:      c.Name,
				CreatedBy:  c.CreatedBy,
				AssignedTo: c.AssignedTo,
				LabelColor: c.LabelColor,
			})
		}
		b.TaskLists = append(b.TaskLists, tl)
	}
	return b
}

func (d userDoc) toUser() service.User {
	return service.User{ID: d.ID, Name: d.Name, Email: d.Email, Image: d.Image}
}
