/*
Package ports defines the driven ports (interfaces) of the Hearth controller.

These interfaces decouple the dialogue logic from external implementations,
allowing the controller to work with various storage backends, knowledge
sources, weather providers and transports.

# Key Interfaces

  - SessionStore: persists the per-session thermostat map and pending frame.
  - KnowledgeBase: resolves an entity id to its canonical value.
  - WeatherProvider: fetches current conditions for a city.
  - DistributedLocker: serializes turns of one session across replicas.
  - Responder: the output channel a transport hands to the controller.
*/
package ports
