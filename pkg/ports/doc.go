/*
Package ports defines the driven ports (interfaces) of the simulator.

These interfaces decouple the engine from where transition models come from and
from the transports that expose it.

# Key Interfaces

  - ModelLoader: produces the single model an engine is built from (file, memory, store entry).
  - ModelStore: a named registry of models (memory, Redis).
  - Simulator: the engine surface consumed by transport adapters such as HTTP.
*/
package ports
