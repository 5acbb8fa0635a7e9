// Package http provides HTTP handlers and middleware for the reservation API.
//
// The router exposes the following endpoints:
//   - POST /login: issues a session token. Body: {"email","password"}. Response:
//     {"token","expires_at","principal":{"user_id","is_admin"}} with token also
//     surfaced via the `X-Session-Token` header and a `session_token` cookie.
//   - POST /logout: revokes the current session token extracted from the Authorization
//     header or session cookie. Returns 204 No Content and clears the cookie.
//   - GET /users, POST /users, GET/PUT/DELETE /users/{id}: administrator controlled
//     user management endpoints exchanging the `userDTO` payload defined in
//     user_handler.go.
//   - GET /rooms, POST /rooms, GET/PUT/DELETE /rooms/{id}: room catalog endpoints
//     exchanging the `roomDTO` payload defined in room_handler.go. Listing is
//     available to any authenticated principal while mutations require admin
//     privileges.
//   - GET/PUT /rooms/{id}/hours, DELETE /rooms/{id}/hours/{weekday}: weekly opening
//     hour administration per room.
//   - GET/POST /rooms/{id}/blackouts, DELETE /blackouts/{id}: maintenance blackout
//     windows per room.
//   - POST /reservations, GET/DELETE /reservations/{id}: booking creation, lookup,
//     and cancellation. Rejected bookings answer with a machine-readable
//     `error_code` and 400 or 409 depending on whether the request itself was
//     malformed or the room state refused it. DELETE is an idempotent cancel and
//     returns the updated reservation.
//   - GET /my/reservations: the caller's reservations grouped into current,
//     upcoming, and past buckets.
//   - GET /availability?date=YYYY-MM-DD: the per-room hourly grid for a day.
//   - GET /rooms/{id}/availability?date=YYYY-MM-DD&slot_minutes=N: bookable free
//     slots for one room on a day.
//
// Request/response DTOs live alongside their respective handlers so tests and
// documentation share the same ground truth.
package http
