// Copyright 2026 The Govisor Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use file except in compliance with the License.
// You may obtain a copy of the license at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package streamvisor keeps a set of data acquisition workers running.
// Workers are ordinary programs (typically sensor readers or recorded-data
// replayers that publish onto a streaming bus) described in JSON, YAML or
// TOML files:
//
//	{
//	    "interpreter": "python",
//	    "streams": [
//	        {
//	            "name": "ecg",
//	            "script_path": "scripts/ecg_ble_stream.py",
//	            "type": "ECG",
//	            "sampling_frequency": 100,
//	            "data_type": "float32",
//	            "unique_id": "ecg-1",
//	            "channels": ["lead1"]
//	        }
//	    ]
//	}
//
// Each stream becomes one process, started as
//
//	<interpreter> <script> <name> <type> [<rate> <data type> <id> <channels>] [args...]
//
// with stdout and stderr appended to <logdir>/<name>.log.  The Supervisor
// polls the processes at a fixed interval and relaunches any that exited,
// whatever the exit status.  There is no backoff or restart limit unless a
// RestartPolicy says otherwise.  When its context is canceled, the
// Supervisor sends each live worker a termination signal and returns
// without waiting for them to exit.
//
// The supervisor knows nothing about the streaming bus; it only starts
// programs and watches them exit.
package streamvisor
