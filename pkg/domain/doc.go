/*
Package domain contains the core types of the Hearth dialogue controller.

A Turn is one classified utterance (intent + entities). A Session holds what
survives between turns: the thermostat temperature map and, at most, one
pending Frame describing an action that still needs one more piece of
information. Handlers answer every Turn with a Response, which is either a
final reply or a clarifying prompt.
*/
package domain
