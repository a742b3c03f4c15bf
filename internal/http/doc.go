// Package http exposes the JSON API for the room booking service.
//
// Each resource gets a handler struct wrapping a narrow service interface;
// the shared responder maps service errors onto the wire taxonomy: 404 for
// missing resources, 400 with a single reason string for rule and input
// violations, 500 with a generic message for everything else.
package http
