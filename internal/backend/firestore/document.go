package firestore

import (
	fs "google.golang.org/api/firestore/v1"

	"tboard/internal/service"
)

// Field names in the "boards" and "users" collections.
const (
	boardsCollection = "boards"
	usersCollection  = "users"

	fieldName       = "name"
	fieldImage      = "image"
	fieldCreatedBy  = "createdBy"
	fieldAssignedTo = "assignedTo"
	fieldTaskList   = "taskList"
	fieldTitle      = "title"
	fieldCards      = "cards"
	fieldLabelColor = "labelColor"
	fieldID         = "id"
	fieldEmail      = "email"
)

func str(s string) fs.Value {
	return fs.Value{StringValue: s}
}

func strs(ss []string) fs.Value {
	vals := make([]*fs.Value, len(ss))
	for i, s := range ss {
		v := str(s)
		vals[i] = &v
	}
	return fs.Value{ArrayValue: &fs.ArrayValue{Values: vals}}
}

func mapValue(fields map[string]fs.Value) *fs.Value {
	return &fs.Value{MapValue: &fs.MapValue{Fields: fields}}
}

// putString skips empty strings; a missing field decodes as "".
func putString(fields map[string]fs.Value, key, s string) {
	if s != "" {
		fields[key] = str(s)
	}
}

func getString(fields map[string]fs.Value, key string) string {
	return fields[key].StringValue
}

func getStrings(fields map[string]fs.Value, key string) []string {
	var out []string
	for _, v := range getArray(fields, key) {
		if v != nil && v.StringValue != "" {
			out = append(out, v.StringValue)
		}
	}
	return out
}

func getArray(fields map[string]fs.Value, key string) []*fs.Value {
	v, ok := fields[key]
	if !ok || v.ArrayValue == nil {
		return nil
	}
	return v.ArrayValue.Values
}

func getMap(v *fs.Value) map[string]fs.Value {
	if v == nil || v.MapValue == nil {
		return nil
	}
	return v.MapValue.Fields
}

func encodeTaskLists(lists []service.TaskList) fs.Value {
	vals := make([]*fs.Value, len(lists))
	for i, l := range lists {
		cards := make([]*fs.Value, len(l.Cards))
		for j, c := range l.Cards {
			cf := map[string]fs.Value{fieldAssignedTo: strs(c.AssignedTo)}
			putString(cf, fieldName, c.Title)
			putString(cf, fieldCreatedBy, c.CreatedBy)
			putString(cf, fieldLabelColor, c.LabelColor)
			cards[j] = mapValue(cf)
		}
		lf := map[string]fs.Value{fieldCards: {ArrayValue: &fs.ArrayValue{Values: cards}}}
		putString(lf, fieldTitle, l.Title)
		putString(lf, fieldCreatedBy, l.CreatedBy)
		vals[i] = mapValue(lf)
	}
	return fs.Value{ArrayValue: &fs.ArrayValue{Values: vals}}
}

func decodeTaskLists(fields map[string]fs.Value) []service.TaskList {
	var lists []service.TaskList
	for _, lv := range getArray(fields, fieldTaskList) {
		lf := getMap(lv)
		l := service.TaskList{
			Title:     getString(lf, fieldTitle),
			CreatedBy: getString(lf, fieldCreatedBy),
		}
		for _, cv := range getArray(lf, fieldCards) {
			cf := getMap(cv)
			l.Cards = append(l.Cards, service.Card{
				Title:      getString(cf, fieldName),
				CreatedBy:  getString(cf, fieldCreatedBy),
				AssignedTo: getStrings(cf, fieldAssignedTo),
				LabelColor: getString(cf, fieldLabelColor),
			})
		}
		lists = append(lists, l)
	}
	return lists
}

func encodeBoard(b service.Board) *fs.Document {
	fields := map[string]fs.Value{
		fieldAssignedTo: strs(b.AssignedTo),
		fieldTaskList:   encodeTaskLists(b.TaskLists),
	}
	putString(fields, fieldName, b.Name)
	putString(fields, fieldImage, b.Image)
	putString(fields, fieldCreatedBy, b.CreatedBy)
	return &fs.Document{Fields: fields}
}

func decodeBoard(d *fs.Document) service.Board {
	return service.Board{
		ID:         docID(d.Name),
		Name:       getString(d.Fields, fieldName),
		Image:      getString(d.Fields, fieldImage),
		CreatedBy:  getString(d.Fields, fieldCreatedBy),
		AssignedTo: getStrings(d.Fields, fieldAssignedTo),
		TaskLists:  decodeTaskLists(d.Fields),
		Version:    d.UpdateTime,
	}
}

func encodeUser(u service.User) *fs.Document {
	fields := map[string]fs.Value{}
	putString(fields, fieldID, u.ID)
	putString(fields, fieldName, u.Name)
	putString(fields, fieldEmail, u.Email)
	putString(fields, fieldImage, u.Image)
	return &fs.Document{Fields: fields}
}

func decodeUser(d *fs.Document) service.User {
	u := service.User{
		ID:    getString(d.Fields, fieldID),
		Name:  getString(d.Fields, fieldName),
		Email: getString(d.Fields, fieldEmail),
		Image: getString(d.Fields, fieldImage),
	}
	if u.ID == "" {
		u.ID = docID(d.Name)
	}
	return u
}

// docID returns the last path segment of a document name.
func docID(name string) string {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '/' {
			return name[i+1:]
		}
	}
	return name
}
