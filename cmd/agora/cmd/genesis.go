package cmd

import (
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"boscoin.io/agora/lib/common"
	"boscoin.io/agora/lib/common/keypair"
	"boscoin.io/agora/lib/election"
	"boscoin.io/agora/lib/storage"

	cmdcommon "boscoin.io/agora/cmd/agora/common"
)

var (
	genesisCmd     *cobra.Command
	flagVotersFile string = common.GetENVValue("AGORA_GENESIS_VOTERS", "")
)

// Genesis is what `MakeGenesis` leaves behind: the two singleton record
// addresses and the size of the imported voter roll.
type Genesis struct {
	Registry string `json:"registry" yaml:"registry"`
	Factory  string `json:"factory" yaml:"factory"`
	Voters   int    `json:"voters" yaml:"voters"`
}

// voterEntry is one line of the `--voters` roll file.
type voterEntry struct {
	Address string `yaml:"address"`
	Name    string `yaml:"name"`
	Contact string `yaml:"contact"`
}

func init() {
	var flagFormat string

	genesisCmd = &cobra.Command{
		Use:   "genesis <registry manager public key> <factory manager public key>",
		Short: "initialize a new network",
		Args:  cobra.ExactArgs(2),
		Run: func(c *cobra.Command, args []string) {
			genesis, flagName, err := MakeGenesis(args[0], args[1], flagStorageConfigString, flagVotersFile)
			if len(flagName) != 0 || err != nil {
				cmdcommon.PrintFlagsError(c, flagName, err)
			}

			if encode, ok := cmdcommon.DefaultEncodes[flagFormat]; ok {
				if err := encode(genesis, os.Stdout); err != nil {
					cmdcommon.PrintError(c, err)
				}
			} else if flagFormat == "default" {
				printGenesis(genesis)
			} else {
				cmdcommon.PrintFlagsError(c, "--format", fmt.Errorf(`"%s" not recognized`, flagFormat))
			}
		},
	}

	genesisCmd.Flags().StringVar(&flagStorageConfigString, "storage", flagStorageConfigString, "storage uri")
	genesisCmd.Flags().StringVar(&flagVotersFile, "voters", flagVotersFile, "yaml file with the initial voter roll")
	genesisCmd.Flags().StringVar(&flagFormat, "format", "default", "format={default, json, prettyjson, yaml}")

	rootCmd.AddCommand(genesisCmd)
}

func printGenesis(genesis Genesis) {
	fmt.Println("registry:", genesis.Registry)
	fmt.Println(" factory:", genesis.Factory)
	if genesis.Voters > 0 {
		fmt.Println("  voters:", genesis.Voters)
	}
	fmt.Println("successfully created genesis records")
}

//
// Create the genesis records using the provided parameters
//
// The registry and the factory are the two singletons every later
// operation refers to; this writes both into a fresh storage, and
// optionally registers an initial voter roll read from a yaml file.
//
// This function is separate, and public, to allow it to be used from
// `node --genesis` so it provides the same behavior (defaults, error
// messages).
//
// Params:
//   registryManager = public address managing the voter registry
//   factoryManager  = public address managing the election factory
//   storageString   = `--storage` argument; when empty the env value or
//                     the current directory is used
//   votersFile      = path of the yaml voter roll, empty means none
//
// Returns:
//   If an error happened, returns a tuple of (Genesis, string, error).
//   The string argument represents the name of the flag which errored,
//   and error is the more detailed error.
//   Note that only one needs be non-`nil` for it to be considered an error.
//
func MakeGenesis(registryManager, factoryManager, storageString, votersFile string) (genesis Genesis, flagName string, err error) {
	var registryKP, factoryKP keypair.KP

	if registryKP, err = keypair.Parse(registryManager); err != nil {
		flagName = "<registry manager public key>"
		return
	}
	if factoryKP, err = keypair.Parse(factoryManager); err != nil {
		flagName = "<factory manager public key>"
		return
	}

	var roll []voterEntry
	if len(votersFile) > 0 {
		var b []byte
		if b, err = ioutil.ReadFile(votersFile); err != nil {
			flagName = "--voters"
			return
		}
		if err = yaml.Unmarshal(b, &roll); err != nil {
			flagName = "--voters"
			return
		}
	}

	// Use the default value
	if len(storageString) == 0 {
		// We try to get the env value first, before doing IO which could fail
		storageString = common.GetENVValue("AGORA_STORAGE", "")
		// No env, use the default (current directory)
		if len(storageString) == 0 {
			if currentDirectory, cerr := os.Getwd(); cerr == nil {
				if currentDirectory, cerr = filepath.Abs(currentDirectory); cerr == nil {
					storageString = fmt.Sprintf("file://%s/db", currentDirectory)
				}
			}
			if len(storageString) == 0 {
				flagName = "--storage"
				err = errors.New("failed to find the default storage path")
				return
			}
		}
	}

	var storageConfig *storage.Config
	if storageConfig, err = storage.NewConfigFromString(storageString); err != nil {
		flagName = "--storage"
		return
	}

	var st *storage.LevelDBBackend
	if st, err = storage.NewStorage(storageConfig); err != nil {
		flagName = "--storage"
		err = fmt.Errorf("failed to initialize storage: %v", err)
		return
	}
	defer st.Close()

	// check the singletons do not exist yet
	if existsAnyWithPrefix(st, election.RegistryPrefix) {
		flagName = "<registry manager public key>"
		err = errors.New("registry is already created")
		return
	}
	if existsAnyWithPrefix(st, election.FactoryPrefix) {
		flagName = "<factory manager public key>"
		err = errors.New("factory is already created")
		return
	}

	registry := election.NewRegistry(registryKP.Address())
	if err = registry.Save(st); err != nil {
		return
	}

	factory := election.NewFactory(factoryKP.Address(), registry.Address)
	if err = factory.Save(st); err != nil {
		return
	}

	for _, entry := range roll {
		if _, err = keypair.Parse(entry.Address); err != nil {
			flagName = "--voters"
			err = fmt.Errorf("voter '%s': %v", entry.Address, err)
			return
		}
		if _, err = election.RegisterVoter(st, registry.Address, registry.Manager, entry.Address, entry.Name, entry.Contact); err != nil {
			flagName = "--voters"
			return
		}
	}

	genesis = Genesis{
		Registry: registry.Address,
		Factory:  factory.Address,
		Voters:   len(roll),
	}

	return
}

func existsAnyWithPrefix(st *storage.LevelDBBackend, prefix string) bool {
	it, closeFunc := st.GetIterator(prefix, storage.NewDefaultListOptions(false, nil, 1))
	defer closeFunc()

	_, hasNext := it()
	return hasNext
}
