/*
Copyright 2025 the Unikorn Authors.
Copyright 2026 Nscale.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package credentials

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the Entra ID claims of interest when checking which identity
// and audience a token was issued for.
type Claims struct {
	jwt.RegisteredClaims
	AppID        string `json:"appid,omitempty"`
	TenantID     string `json:"tid"`
	ObjectID     string `json:"oid"`
	IdentityType string `json:"idtyp,omitempty"`
	UniqueName   string `json:"unique_name,omitempty"`
}

// Inspect decodes a token's claims without verifying the signature. The
// result must never be used for authorization decisions.
func Inspect(token string) (*Claims, error) {
	claims := &Claims{}

	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("parsing access token: %w", err)
	}

	return claims, nil
}
