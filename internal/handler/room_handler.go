/*
Package handler provides the HTTP handlers and routing setup for the chat relay server.

This file contains read-only introspection endpoints over the registry: the list of
active rooms and the roster of a single room.
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"chatrelay/internal/pkg/errs"
	"chatrelay/internal/pkg/resp"
)

// HandleListRooms returns the active rooms and their occupancy. Rooms exist
// implicitly, so an empty list simply means nobody has joined yet.
func HandleListRooms(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp.RespondSuccess(w, r, map[string]any{
			"rooms": deps.Registry.Rooms(),
		})
	}
}

// HandleRoomUsers returns the roster of one room, in join order.
func HandleRoomUsers(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		room := chi.URLParam(r, "room")
		if room == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		users := deps.Registry.UsersInRoom(room)
		if len(users) == 0 {
			resp.RespondError(w, r, errs.NewError(errs.ErrRoomNotFound))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"room":  room,
			"users": users,
		})
	}
}
