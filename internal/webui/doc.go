// Package webui serves the browser front end and a small JSON API over the
// presentation service. Handlers only decode requests, call api.Service and
// encode its results; they hold no state of their own.
package webui
