// Package validation provides pure validation functions for API handlers.
//
// These functions check the shape of decoded request bodies before they are
// turned into service inputs. All functions are pure (no I/O, no side effects).
//
// # Functions
//
//   - ValidateCreatePostFields: Validate required fields for post creation
//   - ValidateUpdatePostFields: Validate required fields for a post update
//   - ValidateDeleteFields: Validate the target of a delete
//   - ItemsIsArray: Check that a raw JSON value is an array or absent
//
// # Usage
//
// The API handlers use these functions to reject malformed requests with 400:
//
//	if field, msg := validation.ValidateCreatePostFields(req.Title, req.Items); field != "" {
//	    // Return 400 Bad Request with msg
//	}
package validation
