// Package errors is the error vocabulary shared by the room coordinator and
// its transports.
//
// Every rejected action carries a Code. The websocket layer sends the
// Message back to the acting client, the HTTP routes map the Code to a
// status, and the admin gRPC service maps it to a gRPC status:
//
//	wrong phase for the action      FailedPrecondition
//	not your turn, not the host     PermissionDenied
//	not enough mana, draft is full  ResourceExhausted
//	unknown card, player or room    NotFound
//	malformed message               InvalidArgument
//
// Creating errors:
//
//	err := errors.FailedPrecondition("Please choose a theme first")
//	err := errors.ResourceExhaustedf("Not enough mana: %d required, %d available", cost, mana)
//
// Wrapping keeps the code of the innermost Error:
//
//	if err := repo.Save(ctx, input); err != nil {
//	    return errors.Wrap(err, "failed to save game state")
//	}
//
// PublicMessage masks internal failures before anything reaches a client.
package errors
