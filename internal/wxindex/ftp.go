package wxindex

import (
	"fmt"
	"io"
	"path"
	"time"

	"github.com/jlaffaye/ftp"
)

// FTPSource fetches per-year weather collection files from an FTP mirror,
// for deployments where the observation dumps are not synced locally.
type FTPSource struct {
	Host string // host:port
	Dir  string // remote directory holding <ICAO>_<year>.json
}

// FetchYear retrieves one per-year weather file over anonymous FTP.
func (s *FTPSource) FetchYear(airport string, year int) ([]byte, error) {
	conn, err := ftp.Dial(s.Host, ftp.DialWithTimeout(30*time.Second))
	if err != nil {
		return nil, fmt.Errorf("ftp dial: %w", err)
	}
	defer conn.Quit()

	if err := conn.Login("anonymous", "anonymous"); err != nil {
		return nil, fmt.Errorf("ftp login: %w", err)
	}

	remote := path.Join(s.Dir, fmt.Sprintf("%s_%d.json", airport, year))
	resp, err := conn.Retr(remote)
	if err != nil {
		return nil, fmt.Errorf("ftp retr %s: %w", remote, err)
	}
	defer resp.Close()

	body, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}
