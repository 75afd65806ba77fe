// Package weather is a client for the OpenWeather current-conditions endpoint.
package weather
