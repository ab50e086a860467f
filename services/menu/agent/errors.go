// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package agent

import "errors"

// ErrLLMUnavailable classifies network, auth, and timeout failures from the
// chat provider. The pipeline treats it as a routing signal: fall back to
// the rule-based classifier when enabled, apologize otherwise. It is never
// retried and never surfaces to the user as-is.
var ErrLLMUnavailable = errors.New("llm unavailable")
